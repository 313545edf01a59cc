package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// panelDimensions holds calculated layout dimensions
type panelDimensions struct {
	availableHeight int
	leftPanelWidth  int
	rightPanelWidth int
}

// calculateDimensions computes panel sizes based on terminal dimensions.
// This centralizes the layout math to ensure consistency across render and resize.
func (m MainModel) calculateDimensions() panelDimensions {
	headerHeight := lipgloss.Height(m.header.Render(m.width))
	checklistHeight := lipgloss.Height(m.renderChecklists())
	// Account for: header + checklist + help line (1) + column header row (1) + panel borders (2)
	availableHeight := m.height - headerHeight - checklistHeight - 1 - 1 - 2
	if availableHeight < 4 {
		availableHeight = 4
	}

	// Two-panel layout: case list (40%) | case detail (60%)
	leftPanelWidth := int(float64(m.width) * 0.4)
	rightPanelWidth := m.width - leftPanelWidth

	return panelDimensions{
		availableHeight: availableHeight,
		leftPanelWidth:  leftPanelWidth,
		rightPanelWidth: rightPanelWidth,
	}
}

// View renders the complete TUI layout
func (m MainModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.header.Render(m.width)
	checklists := m.renderChecklists()

	// Low-confidence diagnoses have no retrieval panel; the fan-out
	// checklists are the whole story.
	if m.report.LowConfidence {
		note := m.styles.HelpStyle().Render(
			"Paste the exact error/traceback output from your terminal to improve accuracy.")
		help := m.styles.HelpStyle().Render("q: Quit")
		return lipgloss.JoinVertical(lipgloss.Left, header, checklists, note, help)
	}

	dims := m.calculateDimensions()
	leftPanel := m.renderListPanel(dims.leftPanelWidth, dims.availableHeight)
	rightPanel := m.renderDetailPanel(dims.rightPanelWidth, dims.availableHeight)
	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	help := m.renderHelpText()

	return lipgloss.JoinVertical(lipgloss.Left, header, checklists, mainContent, help)
}

// renderChecklists renders the fix checklist block under the header.
func (m MainModel) renderChecklists() string {
	var b strings.Builder

	for i, cl := range m.report.Checklists {
		title := "Fix checklist:"
		if cl.Score > 0 {
			title = fmt.Sprintf("Fix checklist (%s) (score: %.2f):", cl.Family, cl.Score)
		}
		b.WriteString(m.styles.TitleStyle().Render(title))
		b.WriteString("\n")

		if len(cl.Items) == 0 {
			b.WriteString(m.styles.ChecklistStyle().Render("(No playbook suggestions for this category yet.)"))
			b.WriteString("\n")
		}
		for _, item := range cl.Items {
			b.WriteString(m.styles.ChecklistStyle().Render("- " + item))
			b.WriteString("\n")
		}
		if i < len(m.report.Checklists)-1 {
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderHelpText renders context-aware help text at the bottom
func (m MainModel) renderHelpText() string {
	keyStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary)

	var helpText string
	if m.detailFocused {
		helpText = fmt.Sprintf("%s: Scroll %s %s: Back %s %s: Quit",
			keyStyle.Render("j/k"), sepStyle.Render("•"),
			keyStyle.Render("Esc"), sepStyle.Render("•"),
			keyStyle.Render("q"))
	} else {
		helpText = fmt.Sprintf("%s: Nav %s %s: View case %s %s: Quit",
			keyStyle.Render("j/k"), sepStyle.Render("•"),
			keyStyle.Render("Enter"), sepStyle.Render("•"),
			keyStyle.Render("q"))
	}

	return m.styles.HelpStyle().Render(helpText)
}

// resizeComponents handles window resize events
func (m *MainModel) resizeComponents() {
	dims := m.calculateDimensions()

	// Resize list view (accounting for panel borders)
	m.listView.SetSize(dims.leftPanelWidth-2, dims.availableHeight)

	// Resize viewport for detail panel (accounting for borders and header row)
	m.detailViewport.Width = dims.rightPanelWidth - 2
	m.detailViewport.Height = dims.availableHeight - 1

	if m.detailViewport.TotalLineCount() == 0 {
		if selected, ok := m.listView.GetSelectedItem(); ok {
			m.updateDetailContent(selected)
		}
	}
}
