package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "117"})

// isTerminal reports whether stdout can take styled output.
func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// formatHeader styles a section header when stdout is a color-capable
// terminal and passes it through untouched otherwise.
func formatHeader(s string) string {
	if !isTerminal() || termenv.EnvColorProfile() == termenv.Ascii {
		return s
	}
	return headerStyle.Render(s)
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !isTerminal() {
		return s
	}
	return pterm.Bold.Sprint(s)
}
