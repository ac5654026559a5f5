package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles for text output
var Styles = struct {
	// Entry type styles
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Information lipgloss.Style

	// Component styles
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Host   lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warn    lipgloss.Style
	Danger  lipgloss.Style
}{
	// Entry types - distinctive colors
	Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red bold
	Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange bold
	Information: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),             // Cyan

	// Components
	Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")), // Gray
	Value:  lipgloss.NewStyle().Bold(true),
	Host:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")), // Blue

	// Status
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
}

// EntryTypeStyle returns the appropriate style for an entry type string
func EntryTypeStyle(entryType string) lipgloss.Style {
	switch entryType {
	case "Error":
		return Styles.Error
	case "Warning":
		return Styles.Warning
	case "Information":
		return Styles.Information
	default:
		return Styles.Value
	}
}
