package tui

import "github.com/charmbracelet/lipgloss"

// Styles は端末クライアントの表示スタイル。
type Styles struct {
	Header      lipgloss.Style
	Overlay     lipgloss.Style
	Title       lipgloss.Style
	Label       lipgloss.Style
	Focused     lipgloss.Style
	Selected    lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Notice      lipgloss.Style
	Restriction lipgloss.Style
}

// DefaultStyles は既定のスタイルを返す。
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		Title:       lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Focused:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Notice:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Restriction: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}
