package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDetail renders the detail content for one similar case
func (m MainModel) renderDetail(item Item, maxWidth int) string {
	content := strings.Builder{}

	header := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Render(fmt.Sprintf("Case %s | Family: %s | Score: %.3f",
			item.Case.ID,
			item.Case.ErrorFamily,
			item.Case.Score))
	fmt.Fprintf(&content, "%s\n\n", header)

	// Error text
	fmt.Fprintln(&content, lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true).Render("ERROR:"))
	for _, line := range SplitLines(CleanText(item.Case.ErrorText)) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		wrapped := Wrap(line, maxWidth)
		fmt.Fprint(&content, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Background(lipgloss.Color("#2D0000")).
			Render(wrapped))
		fmt.Fprintln(&content)
	}
	fmt.Fprintln(&content, "")

	// Recorded fix
	fmt.Fprintln(&content, lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Bold(true).Render("Fix:"))
	wrappedFix := Wrap(CleanText(item.Case.FixText), maxWidth)
	fmt.Fprint(&content, lipgloss.NewStyle().Foreground(m.styles.TextPrimary).Render(wrappedFix))
	fmt.Fprintln(&content)

	return content.String()
}

// updateDetailContent updates the viewport with content from the selected case
func (m *MainModel) updateDetailContent(item Item) {
	// The viewport's width is the max width for the content.
	// Subtract a small amount for internal padding.
	maxWidth := m.detailViewport.Width - 2
	if maxWidth < 10 {
		maxWidth = 10
	}
	content := m.renderDetail(item, maxWidth)
	m.detailViewport.SetContent(content)
}

// renderDetailPanel renders the right panel with the detail viewport
func (m MainModel) renderDetailPanel(width, height int) string {
	if selected, ok := m.listView.GetSelectedItem(); ok {
		headerRow := lipgloss.NewStyle().
			Foreground(m.styles.PrimaryBlue).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("Case: %s", selected.Case.ID))

		borderStyle := m.styles.BorderColor
		if m.detailFocused {
			borderStyle = m.styles.AccentBlue
		}

		return lipgloss.JoinVertical(lipgloss.Left, headerRow,
			lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(borderStyle).
				Width(width).
				Height(height).
				Render(m.detailViewport.View()))
	}

	// No similar cases retrieved
	placeholderRow := lipgloss.NewStyle().
		Foreground(m.styles.TextSecondary).
		Padding(0, 1).
		Render(" ")

	emptyStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.BorderColor).
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(m.styles.TextSecondary).
		Faint(true)

	return lipgloss.JoinVertical(lipgloss.Left, placeholderRow, emptyStyle.Render("No similar cases found"))
}
