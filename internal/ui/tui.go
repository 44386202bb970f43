// Package ui provides the terminal interface for the task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
)

// eventBuffer is the capacity of the store event channel.
const eventBuffer = 64

// Run starts the terminal UI over store and blocks until the user quits
// or ctx is done.
func Run(ctx context.Context, store *todo.Store, cfg *config.Config, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, cfg, logger)
	defer model.close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type inputMode int

const (
	modeList inputMode = iota
	modeAdd
	modeEdit
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastInfo
	toastError
)

type toast struct {
	kind    toastKind
	text    string
	expires time.Time
}

type tuiModel struct {
	store       *todo.Store
	logger      *log.Logger
	events      chan todo.Event
	unsubscribe func()

	clockFormat  string
	toastTTL     time.Duration
	tickInterval time.Duration
	now          func() time.Time

	cursor   int
	mode     inputMode
	input    textinput.Model
	toast    *toast
	clock    time.Time
	showHelp bool
	styles   styles
}

type tickMsg time.Time

type storeEventMsg struct {
	event todo.Event
}

type eventsClosedMsg struct{}

func newTUIModel(store *todo.Store, cfg *config.Config, logger *log.Logger) *tuiModel {
	if logger == nil {
		logger = logging.Discard()
	}
	clockFormat := config.DefaultClockFormat
	toastSeconds := config.DefaultToastSeconds
	if cfg != nil {
		if cfg.ClockFormat != "" {
			clockFormat = cfg.ClockFormat
		}
		toastSeconds = cfg.ToastSeconds
	}

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 512
	ti.Width = 50

	m := &tuiModel{
		store:        store,
		logger:       logger,
		events:       make(chan todo.Event, eventBuffer),
		clockFormat:  clockFormat,
		toastTTL:     time.Duration(toastSeconds) * time.Second,
		tickInterval: time.Second,
		now:          time.Now,
		input:        ti,
		styles:       newStyles(store.DarkMode()),
	}
	m.clock = m.now()
	m.unsubscribe = store.Subscribe(func(ev todo.Event) {
		select {
		case m.events <- ev:
		default:
			m.logger.Debug("dropping store event, ui is behind", "kind", ev.Kind)
		}
	})
	return m
}

// close detaches the model from the store.
func (m *tuiModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tickInterval), waitForEvent(m.events), textinput.Blink)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != modeList {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.input.Width = msg.Width - 12
		}
	case tickMsg:
		m.clock = time.Time(msg)
		m.expireToast(m.clock)
		return m, tickCmd(m.tickInterval)
	case storeEventMsg:
		m.applyEvent(msg.event)
		return m, waitForEvent(m.events)
	case eventsClosedMsg:
		return m, nil
	}

	if m.mode != modeList {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = clampCursor(m.store.Len()-1, m.store.Len())
	case " ", "space", "x":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.Toggle(task.ID); err != nil {
			m.setToast(toastError, fmt.Sprintf("Save failed: %v", err))
			return m, nil
		}
		if task.Completed {
			m.setToast(toastInfo, "Task reopened")
		} else {
			m.setToast(toastSuccess, "Task completed")
		}
	case "a":
		m.mode = modeAdd
		m.input.Reset()
		m.input.Placeholder = "What needs to be done?"
		return m, m.input.Focus()
	case "e", "enter":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.store.StartEdit(task.ID)
		m.mode = modeEdit
		m.input.SetValue(task.Text)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "d", "delete":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.Delete(task.ID); err != nil {
			m.setToast(toastError, fmt.Sprintf("Save failed: %v", err))
			return m, nil
		}
		m.setToast(toastInfo, "Task deleted")
	case "t":
		if err := m.store.ToggleTheme(); err != nil {
			m.setToast(toastError, fmt.Sprintf("Save failed: %v", err))
			return m, nil
		}
		m.setToast(toastInfo, fmt.Sprintf("Switched to %s theme", themeName(m.store.DarkMode())))
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeEdit {
			m.store.CancelEdit()
		}
		m.leaveInput()
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) submitInput() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	switch m.mode {
	case modeAdd:
		_, err := m.store.Create(text)
		if errors.Is(err, todo.ErrEmptyInput) {
			m.setToast(toastError, "Task text required")
			return m, nil
		}
		m.leaveInput()
		m.cursor = clampCursor(m.store.Len()-1, m.store.Len())
		if err != nil {
			m.setToast(toastError, fmt.Sprintf("Save failed: %v", err))
			return m, nil
		}
		m.setToast(toastSuccess, "Task added")
	case modeEdit:
		id, ok := m.store.Editing()
		if !ok {
			m.leaveInput()
			return m, nil
		}
		err := m.store.SaveEdit(id, text)
		if errors.Is(err, todo.ErrEmptyInput) {
			m.setToast(toastError, "Task text required")
			return m, nil
		}
		m.leaveInput()
		if err != nil {
			m.setToast(toastError, fmt.Sprintf("Save failed: %v", err))
			return m, nil
		}
		m.setToast(toastSuccess, "Task updated")
	}
	return m, nil
}

func (m *tuiModel) leaveInput() {
	m.mode = modeList
	m.input.Reset()
	m.input.Blur()
}

// applyEvent reacts to a store change after it has been persisted.
func (m *tuiModel) applyEvent(ev todo.Event) {
	m.logger.Debug("store event", "kind", ev.Kind, "id", ev.TaskID)
	switch ev.Kind {
	case todo.EventThemeChanged:
		m.styles = newStyles(m.store.DarkMode())
	case todo.EventDeleted, todo.EventCreated:
		m.cursor = clampCursor(m.cursor, m.store.Len())
	case todo.EventEditCancelled:
		if m.mode == modeEdit {
			m.leaveInput()
		}
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	tasks := m.store.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *tuiModel) setToast(kind toastKind, text string) {
	if kind == toastError {
		m.logger.Warn(text)
	}
	t := &toast{kind: kind, text: text}
	if m.toastTTL > 0 {
		t.expires = m.now().Add(m.toastTTL)
	}
	m.toast = t
}

// expireToast drops the toast once it is due. A zero expiry never fires.
func (m *tuiModel) expireToast(now time.Time) {
	if m.toast != nil && !m.toast.expires.IsZero() && !now.Before(m.toast.expires) {
		m.toast = nil
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeHeader(&b)

	if m.showHelp {
		m.writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	m.writeTasks(&b)
	if m.mode == modeAdd {
		b.WriteString("\n  New task: " + m.input.View() + "\n")
	}
	m.writeToast(&b)
	m.writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeHeader(b *strings.Builder) {
	title := "Tasks"
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("  ")
	b.WriteString(m.styles.clock.Render(m.clock.Format(m.clockFormat)))
	b.WriteString("\n")
	b.WriteString(m.styles.clock.Render(strings.Repeat("=", len(title))) + "\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	tasks := m.store.Tasks()
	if len(tasks) == 0 {
		b.WriteString("  " + m.styles.empty.Render("No tasks yet. Press a to add one.") + "\n")
		return
	}
	editing, _ := m.store.Editing()
	for i, task := range tasks {
		pointer := "  "
		if i == m.cursor {
			pointer = m.styles.cursor.Render("> ")
		}
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}
		var text string
		switch {
		case m.mode == modeEdit && task.ID == editing:
			text = m.input.View()
		case task.Completed:
			text = m.styles.completed.Render(task.Text)
		case i == m.cursor:
			text = m.styles.cursor.Render(task.Text)
		default:
			text = m.styles.item.Render(task.Text)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", pointer, check, text))
	}
}

func (m *tuiModel) writeToast(b *strings.Builder) {
	b.WriteString("\n")
	if m.toast == nil {
		return
	}
	style := m.styles.toastInfo
	switch m.toast.kind {
	case toastSuccess:
		style = m.styles.toastOK
	case toastError:
		style = m.styles.toastErr
	}
	b.WriteString(style.Render(m.toast.text) + "\n")
}

func (m *tuiModel) writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	lines := []string{
		"  up, k        Move up",
		"  down, j      Move down",
		"  space, x     Toggle completed",
		"  a            Add a task",
		"  e, enter     Edit the selected task",
		"  d            Delete the selected task",
		"  t            Toggle light/dark theme",
		"  ?            Toggle this help screen",
		"  q, ctrl+c    Quit",
		"",
		"  While typing: enter saves, esc cancels",
	}
	for _, line := range lines {
		b.WriteString(m.styles.help.Render(line) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	remaining := m.store.Remaining()
	noun := "tasks"
	if remaining == 1 {
		noun = "task"
	}
	line := fmt.Sprintf("%d %s remaining | %s theme | ? for help | q to quit", remaining, noun, m.styles.themeName())
	b.WriteString(m.styles.footer.Render(line) + "\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(ch <-chan todo.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return storeEventMsg{event: ev}
	}
}

func clampCursor(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
