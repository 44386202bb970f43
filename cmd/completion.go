package cmd

import (
	"fmt"
	"strings"
)

// commandNames lists the subcommands offered by shell completion.
var commandNames = []string{
	"tui", "add", "list", "done", "edit", "rm", "theme", "remaining",
	"export", "doctor", "config", "log", "completion", "version", "help",
}

// completionCommand prints a completion script for the given shell.
func (a *app) completionCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasks completion <bash|zsh|fish|powershell>")
	}
	commands := strings.Join(commandNames, " ")

	switch strings.ToLower(args[0]) {
	case "bash":
		fmt.Fprintf(a.stdout, bashCompletion, commands)
	case "zsh":
		fmt.Fprintf(a.stdout, zshCompletion, commands)
	case "fish":
		fmt.Fprintf(a.stdout, fishCompletion, commands)
	case "powershell", "pwsh":
		fmt.Fprintf(a.stdout, powershellCompletion, "'"+strings.Join(commandNames, "','")+"'")
	default:
		return fmt.Errorf("unsupported shell %q (expected bash, zsh, fish, powershell)", args[0])
	}
	return nil
}

const bashCompletion = `# tasks bash completion
_tasks() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        export)
            COMPREPLY=( $(compgen -W "--format" -- "$cur") )
            return ;;
        --format|-format)
            COMPREPLY=( $(compgen -W "json yaml toml" -- "$cur") )
            return ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "$cur") )
            return ;;
    esac
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=( $(compgen -W "%s" -- "$cur") )
    fi
}
complete -F _tasks tasks
`

const zshCompletion = `#compdef tasks
# tasks zsh completion
_tasks() {
    local -a commands
    commands=(%s)
    if (( CURRENT == 2 )); then
        compadd -a commands
        return
    fi
    case "$words[2]" in
        export) compadd -- --format json yaml toml ;;
        completion) compadd bash zsh fish powershell ;;
    esac
}
compdef _tasks tasks
`

const fishCompletion = `# tasks fish completion
complete -c tasks -f
complete -c tasks -n '__fish_use_subcommand' -a '%s'
complete -c tasks -n '__fish_seen_subcommand_from export' -l format -xa 'json yaml toml'
complete -c tasks -n '__fish_seen_subcommand_from completion' -xa 'bash zsh fish powershell'
`

const powershellCompletion = `# tasks PowerShell completion
Register-ArgumentCompleter -Native -CommandName tasks -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`
