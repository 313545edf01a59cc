// Package preprocess canonicalizes raw error-report text into a reduced
// alphabet suitable for feature extraction. Volatile details (paths, line
// numbers, literals) are replaced with placeholder tokens so that two
// reports differing only in those details normalize to the same string.
package preprocess

import (
	"regexp"
	"strings"
)

// Placeholder tokens inserted by Normalize.
const (
	TokenPath = "<PATH>"
	TokenLine = "<LINE>"
	TokenHex  = "<HEX>"
	TokenStr  = "<STR>"
	TokenNum  = "<NUM>"
	TokenCode = "<CODE>"
)

// Masking patterns - compiled once at package init. Order of application
// matters: paths before numbers (so path segments with digits become one
// <PATH>), hex before quoted strings, quoted strings before bare integers.
var (
	// windowsPathPattern matches drive-letter absolute paths.
	// Matches: C:\Users\User\Desktop\input.txt
	windowsPathPattern = regexp.MustCompile(`[A-Za-z]:\\(?:[^\\\n]+\\)*[^\\\n]+`)

	// unixPathPattern matches /segment sequences (absolute or embedded).
	// Matches: /home/user/project/data/input.txt
	unixPathPattern = regexp.MustCompile(`(?:/[^/\s]+)+`)

	// lineNumberPattern matches "line 42" style references.
	lineNumberPattern = regexp.MustCompile(`(?i)\bline\s+\d+\b`)

	// hexPattern matches 0x-prefixed hex literals.
	hexPattern = regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`)

	// quotedStringPattern matches single- or double-quoted literals,
	// tolerating backslash escapes inside.
	quotedStringPattern = regexp.MustCompile(`'(?:\\.|[^'\\\n])*'|"(?:\\.|[^"\\\n])*"`)

	// plainIntPattern matches remaining standalone decimal integers.
	plainIntPattern = regexp.MustCompile(`\b\d+\b`)

	// whitespacePattern matches runs of whitespace.
	whitespacePattern = regexp.MustCompile(`\s+`)

	// placeholderPattern matches any placeholder token, in any case.
	// Lowercasing mangles tokens from a previous pass; restoring them to
	// canonical uppercase keeps Normalize idempotent.
	placeholderPattern = regexp.MustCompile(`(?i)<(path|line|hex|str|num|code)>`)
)

// Normalize canonicalizes raw error/code text. The transform is
// deterministic and idempotent, accepts any string, and never fails.
// Empty input yields the empty string.
func Normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))

	t = windowsPathPattern.ReplaceAllString(t, TokenPath)
	t = unixPathPattern.ReplaceAllString(t, TokenPath)
	t = lineNumberPattern.ReplaceAllString(t, "line "+TokenLine)
	t = hexPattern.ReplaceAllString(t, TokenHex)
	t = quotedStringPattern.ReplaceAllString(t, TokenStr)
	t = plainIntPattern.ReplaceAllString(t, TokenNum)

	t = placeholderPattern.ReplaceAllStringFunc(t, strings.ToUpper)
	t = strings.TrimSpace(whitespacePattern.ReplaceAllString(t, " "))

	return t
}

// CombineInputs joins the pasted error text with an optional code snippet.
// When code is blank the error text is returned unchanged; otherwise the
// code is appended after a <CODE> marker line. The combined text feeds
// vectorization and retrieval, never rule matching.
func CombineInputs(errorText, code string) string {
	if strings.TrimSpace(code) == "" {
		return errorText
	}
	return errorText + "\n" + TokenCode + "\n" + code
}
