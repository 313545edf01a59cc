package tui

import "debugassist/src/contracts"

// Item wraps one retrieved similar case and implements bubbles/list.Item.
type Item struct {
	Case contracts.SimilarCase
	Rank int
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Case.ErrorText }

// Title returns the primary text for the item (required by list.Item).
func (i Item) Title() string { return i.Case.ErrorText }

// Description returns the secondary text for the item (required by list.Item).
func (i Item) Description() string { return string(i.Case.ErrorFamily) }
