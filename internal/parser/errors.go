package parser

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrBlankLine is returned for lines that hold only whitespace.
var ErrBlankLine = errors.New("blank line")

// Reason names why a line was rejected.
type Reason string

const (
	ReasonTooFewFields Reason = "too few fields"
	ReasonNoSource     Reason = "no source identifier"
	ReasonNoEndpoint   Reason = "no endpoint"
	ReasonNoStatus     Reason = "no status code"
	ReasonInvalidJSON  Reason = "invalid json"
)

const maxPreview = 50

// MalformedLineError reports a line that could not be turned into a record.
type MalformedLineError struct {
	Line    int
	Reason  Reason
	Preview string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func malformed(seq int, line string, reason Reason) error {
	return &MalformedLineError{Line: seq, Reason: reason, Preview: previewOf(line)}
}

// previewOf cuts line to at most maxPreview bytes on a rune boundary.
func previewOf(line string) string {
	if len(line) <= maxPreview {
		return line
	}
	n := maxPreview
	for n > 0 && !utf8.RuneStart(line[n]) {
		n--
	}
	return line[:n] + "..."
}
