// Package traceback provides structural parsing of Python tracebacks.
// A parsed trace gives the UI and the MCP tools the final exception line
// and the frame stack without re-running the classifier's regexes.
package traceback

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Frame is one "File ..., line N, in func" stack entry.
type Frame struct {
	File     string
	Line     int
	Function string
}

// Trace is a parsed traceback. Frames run outermost to innermost, matching
// the pasted order.
type Trace struct {
	Frames []Frame
	// Exception is the final exception type, e.g. "KeyError".
	Exception string
	// Message is the text after the exception type, possibly empty.
	Message string
}

var (
	framePattern = regexp.MustCompile(`^\s*File "([^"]+)", line (\d+)(?:, in (.+))?\s*$`)
	// Exception types are dotted identifiers ending in a capitalized word,
	// e.g. KeyError, requests.exceptions.Timeout.
	exceptionPattern = regexp.MustCompile(`^([A-Za-z_][\w.]*(?:Error|Exception|Warning|Interrupt|Exit|Timeout))(?::\s?(.*))?$`)
)

// Parse extracts the frame stack and the final exception line. It returns
// false when the text contains neither a frame nor an exception line; such
// input still flows through classification, just without structure.
func Parse(text string) (*Trace, bool) {
	trace := &Trace{}

	for _, line := range strings.Split(text, "\n") {
		if m := framePattern.FindStringSubmatch(line); m != nil {
			lineNo, _ := strconv.Atoi(m[2])
			trace.Frames = append(trace.Frames, Frame{
				File:     m[1],
				Line:     lineNo,
				Function: strings.TrimSpace(m[3]),
			})
			continue
		}
		if m := exceptionPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			// Keep the last match; chained tracebacks list causes first.
			trace.Exception = m[1]
			trace.Message = m[2]
		}
	}

	if len(trace.Frames) == 0 && trace.Exception == "" {
		return nil, false
	}
	return trace, true
}

// ExceptionLine reconstructs the "Type: message" line.
func (t *Trace) ExceptionLine() string {
	if t.Exception == "" {
		return ""
	}
	if t.Message == "" {
		return t.Exception
	}
	return t.Exception + ": " + t.Message
}

// Origin returns the innermost frame, where the exception was raised.
func (t *Trace) Origin() (Frame, bool) {
	if len(t.Frames) == 0 {
		return Frame{}, false
	}
	return t.Frames[len(t.Frames)-1], true
}

// Hash is a deterministic identifier grouping identical failures across
// reports: same exception raised at the same origin.
func (t *Trace) Hash() string {
	origin, _ := t.Origin()
	key := fmt.Sprintf("%s::%s::%d::%s", t.Exception, origin.File, origin.Line, origin.Function)
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum[:8])
}
