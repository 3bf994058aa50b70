package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/wippyai/wasm-validate/conform"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD866"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func init() {
	// plain output when piped
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func statusStyle(s conform.Status) lipgloss.Style {
	switch s {
	case conform.StatusOK:
		return okStyle
	case conform.StatusMismatch:
		return warnStyle
	default:
		return errorStyle
	}
}

func formatResult(res conform.Result) string {
	line := fmt.Sprintf("%s %s %s",
		statusStyle(res.Status).Width(9).Render(string(res.Status)),
		funcStyle.Render(res.Name),
		typeStyle.Render(res.Expected.String()))
	if res.Status == conform.StatusMismatch {
		line += " " + warnStyle.Render("got "+res.Actual.String())
	}
	if res.Origin != nil {
		line += " " + helpStyle.Render("(re-exports "+res.Origin.String()+")")
	}
	return line
}
