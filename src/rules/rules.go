// Package rules implements the deterministic first-stage classifier.
// An ordered table of regex rules maps strong lexical signals in the raw
// (non-normalized) report text straight to an error family. Rule order is
// part of the contract: the first matching rule wins, so reordering rules
// is a breaking change.
package rules

import (
	"regexp"
	"strings"

	"debugassist/src/contracts"
)

// Rule pairs an error family with the pattern that signals it.
type Rule struct {
	Family  contracts.ErrorFamily
	Pattern *regexp.Regexp
}

// ruleTable is evaluated top to bottom. Patterns match case-insensitively
// anywhere in the text.
var ruleTable = []Rule{
	{contracts.FamilyImportError, regexp.MustCompile(`(?i)\bmodulenotfounderror\b`)},
	{contracts.FamilyImportError, regexp.MustCompile(`(?i)\bimporterror\b`)},
	{contracts.FamilyImportError, regexp.MustCompile(`(?i)\bno module named\b`)},
	{contracts.FamilyImportError, regexp.MustCompile(`(?i)\bcannot import name\b`)},

	{contracts.FamilySyntaxError, regexp.MustCompile(`(?i)\bsyntaxerror\b`)},
	{contracts.FamilySyntaxError, regexp.MustCompile(`(?i)\bindentationerror\b`)},
	{contracts.FamilySyntaxError, regexp.MustCompile(`(?i)\bunexpected indent\b`)},
	{contracts.FamilySyntaxError, regexp.MustCompile(`(?i)\bexpected an indented block\b`)},

	{contracts.FamilyTypeError, regexp.MustCompile(`(?i)\btypeerror\b`)},
	{contracts.FamilyTypeError, regexp.MustCompile(`(?i)\bnot callable\b`)},
	{contracts.FamilyTypeError, regexp.MustCompile(`(?i)\bunsupported operand type`)},
	{contracts.FamilyTypeError, regexp.MustCompile(`(?i)\bhas no len\(\)`)},

	{contracts.FamilyValueError, regexp.MustCompile(`(?i)\bvalueerror\b`)},
	{contracts.FamilyValueError, regexp.MustCompile(`(?i)\binvalid literal for int\(\)`)},
	{contracts.FamilyValueError, regexp.MustCompile(`(?i)\bcould not convert string to float\b`)},
	{contracts.FamilyValueError, regexp.MustCompile(`(?i)\blist\.remove\(x\): x not in list\b`)},

	{contracts.FamilyAttributeError, regexp.MustCompile(`(?i)\battributeerror\b`)},
	{contracts.FamilyAttributeError, regexp.MustCompile(`(?i)\bhas no attribute\b`)},
	{contracts.FamilyAttributeError, regexp.MustCompile(`(?i)\bnonetype\b.*\bhas no attribute\b`)},

	{contracts.FamilyKeyError, regexp.MustCompile(`(?i)\bkeyerror\b`)},
	// Bare quoted key on its own line, as seen when only the final line of
	// a KeyError traceback is pasted. Known to false-positive on unrelated
	// quoted text; kept as-is because the training corpus depends on it.
	{contracts.FamilyKeyError, regexp.MustCompile(`(?m)^\s*['"][A-Za-z0-9_ -]{1,40}['"]\s*$`)},

	{contracts.FamilyIndexError, regexp.MustCompile(`(?i)\bindexerror\b`)},
	{contracts.FamilyIndexError, regexp.MustCompile(`(?i)\blist index out of range\b`)},

	{contracts.FamilyFileError, regexp.MustCompile(`(?i)\bfilenotfounderror\b`)},
	{contracts.FamilyFileError, regexp.MustCompile(`(?i)\bpermissionerror\b`)},
	{contracts.FamilyFileError, regexp.MustCompile(`(?i)\bno such file or directory\b`)},
	{contracts.FamilyFileError, regexp.MustCompile(`(?i)\bpermission denied\b`)},

	{contracts.FamilyZeroDivision, regexp.MustCompile(`(?i)\bzerodivisionerror\b`)},
	{contracts.FamilyZeroDivision, regexp.MustCompile(`(?i)\bdivision by zero\b`)},
	{contracts.FamilyZeroDivision, regexp.MustCompile(`(?i)\binteger division or modulo by zero\b`)},

	{contracts.FamilyConnectionError, regexp.MustCompile(`(?i)\brequests\.exceptions\.timeout\b`)},
	{contracts.FamilyConnectionError, regexp.MustCompile(`(?i)\brequests\.exceptions\.connectionerror\b`)},
	{contracts.FamilyConnectionError, regexp.MustCompile(`(?i)\bread timed out\b`)},
	{contracts.FamilyConnectionError, regexp.MustCompile(`(?i)\bconnection refused\b`)},
}

// Predict returns the family of the first rule matching the raw text.
// The second return value reports whether any rule matched; empty or blank
// input never matches. Callers fall back to the statistical model when no
// rule decides.
func Predict(errorText string) (contracts.ErrorFamily, bool) {
	text := strings.TrimSpace(errorText)
	if text == "" {
		return "", false
	}

	for _, r := range ruleTable {
		if r.Pattern.MatchString(text) {
			return r.Family, true
		}
	}

	return "", false
}

// Rules returns the rule table in evaluation order. Exposed for the
// inspection CLI; the returned slice must not be modified.
func Rules() []Rule {
	return ruleTable
}
