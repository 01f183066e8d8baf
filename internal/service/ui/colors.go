package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle uses ANSI 6 (Cyan), readable on light and dark terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (Green) for arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (Gray) keeps descriptions quieter than names
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (Yellow)
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// QueuedStyle and ErrorStyle colour journal rows by dispatch status
	QueuedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)
