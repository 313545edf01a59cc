package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"debugassist/src/contracts"
)

// Header is the top status bar showing the classification outcome.
type Header struct {
	prediction contracts.PredictionResult
	lowConf    bool
	styles     *StyleConfig
}

// NewHeader creates a header for a prediction with default styles
func NewHeader(prediction contracts.PredictionResult, lowConf bool) Header {
	return Header{
		prediction: prediction,
		lowConf:    lowConf,
		styles:     DefaultStyles(),
	}
}

// Render renders the header
func (h Header) Render(width int) string {
	familyStyle := lipgloss.NewStyle().
		Foreground(h.styles.PrimaryBlue).
		Bold(true).
		Padding(0, 2)

	family := familyStyle.Render(fmt.Sprintf("Family: %s", h.prediction.Family))

	methodStyle := lipgloss.NewStyle().
		Foreground(h.styles.TextSecondary).
		Padding(0, 2)

	var methodText string
	if h.prediction.Confidence != nil {
		methodText = fmt.Sprintf("via %s, confidence=%.2f", h.prediction.Method, *h.prediction.Confidence)
	} else {
		methodText = fmt.Sprintf("via %s", h.prediction.Method)
	}
	method := methodStyle.Render(methodText)

	var warning string
	if h.lowConf {
		warning = lipgloss.NewStyle().
			Foreground(h.styles.WarningColor).
			Bold(true).
			Padding(0, 2).
			Render("LOW CONFIDENCE")
	}

	leftSection := lipgloss.JoinHorizontal(lipgloss.Left, family, method, warning)

	headerStyle := lipgloss.NewStyle().
		Background(h.styles.DarkBackground).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(h.styles.BorderColor).
		Width(width)

	spacerWidth := width - lipgloss.Width(leftSection)
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	content := lipgloss.JoinHorizontal(lipgloss.Left, leftSection, spacer)

	return headerStyle.Render(content)
}
