package tui

import (
	"linernotes/pkg/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true)
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).MarginTop(1)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).MarginTop(1)
	albumStyle    = lipgloss.NewStyle().Bold(true)
	artistStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true).PaddingLeft(2)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	scoreMaxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	tierStyles = map[models.ScoreTier]lipgloss.Style{
		models.TierHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		models.TierMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		models.TierLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
)

func scoreStyle(tier models.ScoreTier) lipgloss.Style {
	if s, ok := tierStyles[tier]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
