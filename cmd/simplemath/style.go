package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/petasbytes/simplemath/internal/orchestrator"
	"github.com/petasbytes/simplemath/memory"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	linkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)
	codeStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// statusLine renders the progress of a running round, e.g. "[2/3] 技术评估...".
func statusLine(s orchestrator.Status) string {
	return mutedStyle.Render(fmt.Sprintf("[%d/%d] %s...", s.CurrentRound, s.TotalRounds, s.RoundName))
}

func roleLabel(m memory.Message) string {
	switch m.Role {
	case memory.RoleUser:
		return userStyle.Render("You")
	case memory.RoleAssistant:
		if m.Round > 0 {
			return assistantStyle.Render(fmt.Sprintf("Assistant (round %d)", m.Round))
		}
		return assistantStyle.Render("Assistant")
	default:
		return systemStyle.Render("System")
	}
}
