package ui

import "github.com/charmbracelet/lipgloss"

// palette holds the colors of one theme.
type palette struct {
	fg     lipgloss.Color
	muted  lipgloss.Color
	accent lipgloss.Color
	done   lipgloss.Color
	ok     lipgloss.Color
	info   lipgloss.Color
	err    lipgloss.Color
}

var (
	lightPalette = palette{
		fg:     lipgloss.Color("#1f2328"),
		muted:  lipgloss.Color("#6e7781"),
		accent: lipgloss.Color("#0969da"),
		done:   lipgloss.Color("#8c959f"),
		ok:     lipgloss.Color("#1a7f37"),
		info:   lipgloss.Color("#0969da"),
		err:    lipgloss.Color("#cf222e"),
	}
	darkPalette = palette{
		fg:     lipgloss.Color("#e6edf3"),
		muted:  lipgloss.Color("#8b949e"),
		accent: lipgloss.Color("#58a6ff"),
		done:   lipgloss.Color("#6e7681"),
		ok:     lipgloss.Color("#3fb950"),
		info:   lipgloss.Color("#58a6ff"),
		err:    lipgloss.Color("#f85149"),
	}
)

// styles are the rendered styles for the current theme.
type styles struct {
	dark      bool
	title     lipgloss.Style
	clock     lipgloss.Style
	item      lipgloss.Style
	cursor    lipgloss.Style
	completed lipgloss.Style
	footer    lipgloss.Style
	help      lipgloss.Style
	empty     lipgloss.Style
	toastOK   lipgloss.Style
	toastInfo lipgloss.Style
	toastErr  lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	base := lipgloss.NewStyle().Foreground(p.fg)
	return styles{
		dark:      dark,
		title:     base.Bold(true).Foreground(p.accent),
		clock:     base.Foreground(p.muted),
		item:      base,
		cursor:    base.Bold(true).Foreground(p.accent),
		completed: base.Strikethrough(true).Foreground(p.done),
		footer:    base.Foreground(p.muted),
		help:      base.Foreground(p.muted),
		empty:     base.Italic(true).Foreground(p.muted),
		toastOK:   base.Foreground(p.ok),
		toastInfo: base.Foreground(p.info),
		toastErr:  base.Bold(true).Foreground(p.err),
	}
}

func (s styles) themeName() string {
	return themeName(s.dark)
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
