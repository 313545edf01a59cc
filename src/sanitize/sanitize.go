// Package sanitize cleans pasted error reports before classification.
// Terminal output often carries ANSI color codes and carriage returns that
// would otherwise leak into tokens and retrieval queries.
//
// This package is for input sanitization and MCP output. For TUI rendering,
// use the tui package which has its own ANSI handling via charmbracelet/x/ansi.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// ANSI escape codes: \x1b[...m (SGR sequences)
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	// OSC-style terminal markers: \x1b_...\x07 (iTerm, CI log annotations)
	oscPattern = regexp.MustCompile(`\x1b_[^\x07]*\x07`)
)

// StripANSI removes ANSI escape codes and terminal marker sequences.
func StripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = ansiPattern.ReplaceAllString(s, "")
	return s
}

// Clean strips ANSI sequences, normalizes line endings to \n and trims
// surrounding whitespace. Pasted reports go through Clean before any
// classification or retrieval.
func Clean(s string) string {
	s = StripANSI(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}
