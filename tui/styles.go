package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/sentrahq/sentra"
)

// Styles maps a Theme to lipgloss styles for inspector rendering.
type Styles struct {
	ToolCall lipgloss.Style
	Result   lipgloss.Style
	Question lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t sentra.Theme) Styles {
	return Styles{
		ToolCall: lipgloss.NewStyle().Foreground(ansiColor(t.ToolCall)).Bold(true),
		Result:   lipgloss.NewStyle().Foreground(ansiColor(t.Result)).Bold(true),
		Question: lipgloss.NewStyle().Foreground(ansiColor(t.Question)).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:  lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
