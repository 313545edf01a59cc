// Package tui provides the terminal user interface for browsing a
// diagnosis: the predicted family up top, the fix checklist, and the
// similar solved cases in a split list/detail layout.
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"debugassist/src/diagnose"
)

// MainModel is the Bubble Tea model for the diagnosis browser.
type MainModel struct {
	report *diagnose.Report

	header         Header
	listView       View
	detailViewport viewport.Model
	styles         *StyleConfig

	width         int
	height        int
	ready         bool
	detailFocused bool
}

// NewMainModel builds the browser for one diagnosis report.
func NewMainModel(report *diagnose.Report) MainModel {
	m := MainModel{
		report:   report,
		header:   NewHeader(report.Prediction, report.LowConfidence),
		listView: NewView(),
		styles:   DefaultStyles(),
	}

	items := make([]Item, len(report.SimilarCases))
	for i, c := range report.SimilarCases {
		items[i] = Item{Case: c, Rank: i + 1}
	}
	m.listView.SetItems(items)

	return m
}

// Start runs the diagnosis browser until the user quits.
func Start(report *diagnose.Report) error {
	p := tea.NewProgram(NewMainModel(report), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the model. Required by tea.Model interface.
func (m MainModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeComponents()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.detailFocused && msg.String() == "esc" {
				m.detailFocused = false
				return m, nil
			}
			return m, tea.Quit

		case "tab", "enter":
			m.detailFocused = !m.detailFocused
			return m, nil
		}

		if m.detailFocused {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.listView, cmd = m.listView.Update(msg)
		if selected, ok := m.listView.GetSelectedItem(); ok {
			m.updateDetailContent(selected)
		}
		return m, cmd
	}

	return m, nil
}
