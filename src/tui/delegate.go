package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"debugassist/src/contracts"
)

const (
	// listRenderingOverhead accounts for padding added by bubbles/list and
	// panel borders: panel border (2) + list internal padding/margins (8).
	listRenderingOverhead = 10

	familyColWidth = 16
	idColWidth     = 5
)

// Delegate renders similar cases as table rows.
type Delegate struct {
	RankWidth int
	styles    *StyleConfig
}

// NewDelegate creates a new case table delegate with default styles
func NewDelegate() Delegate {
	return Delegate{
		RankWidth: 2, // default minimum
		styles:    DefaultStyles(),
	}
}

// SetColumnWidths sets the rank column width from the largest rank shown
func (d *Delegate) SetColumnWidths(maxRank int) {
	d.RankWidth = len(fmt.Sprintf("%d", maxRank))
	if d.RankWidth < 2 {
		d.RankWidth = 2
	}
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// familyColor picks a stable accent color for an error family.
func (d Delegate) familyColor(family contracts.ErrorFamily) lipgloss.Color {
	if len(d.styles.FamilyColors) == 0 {
		return d.styles.TextSecondary
	}
	sum := 0
	for _, r := range string(family) {
		sum += int(r)
	}
	return d.styles.FamilyColors[sum%len(d.styles.FamilyColors)]
}

// Render renders a list item
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	rankFmt := fmt.Sprintf("%%%dd", d.RankWidth)
	rankCol := fmt.Sprintf(rankFmt, entry.Rank)
	// Score shown without the leading zero (.95) to keep the column tight
	scoreCol := fmt.Sprintf("%-3s", fmt.Sprintf("%.2f", entry.Case.Score)[1:])
	familyCol := TruncateAndPad(string(entry.Case.ErrorFamily), familyColWidth, false)
	idCol := TruncateAndPad(entry.Case.ID, idColWidth, false)

	// Fixed columns: rank + score (3) + family + id + separators (12)
	fixedWidth := d.RankWidth + 3 + familyColWidth + idColWidth + 12
	availableWidth := m.Width() - fixedWidth - listRenderingOverhead

	var snippet string
	if availableWidth > 0 {
		snippet = TruncateAndPad(CleanText(entry.Case.ErrorText), availableWidth, true)
	}

	line := fmt.Sprintf("%s │ %s │ %s │ %s │ %s",
		rankCol, scoreCol, familyCol, idCol, snippet)

	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if isSelected {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	} else {
		style = style.Foreground(d.familyColor(entry.Case.ErrorFamily))
	}

	fmt.Fprint(w, style.Render(line))
}
