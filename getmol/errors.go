package getmol

import (
	"errors"
	"fmt"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

var (
	// ErrNotFound means the upstream answered but has no structure for the accession.
	ErrNotFound = errors.New("structure not found")
	// ErrEmptyResponse means the upstream returned a 200 with no usable body.
	ErrEmptyResponse = errors.New("empty response from source")
	// ErrNoStructure means the downloaded document carried no structure field.
	ErrNoStructure = errors.New("no structure field in response")
)

// FetchError wraps a failure talking to one upstream database.
type FetchError struct {
	Source     entities.Source
	Accession  string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s from %s: status %d: %v", e.Accession, e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s from %s: %v", e.Accession, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed structure document, naming where it broke.
type ParseError struct {
	Format string
	Line   int
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("parse %s: line %d: %s", e.Format, e.Line, e.Msg)
	case e.Offset > 0:
		return fmt.Sprintf("parse %s: offset %d: %s", e.Format, e.Offset, e.Msg)
	default:
		return fmt.Sprintf("parse %s: %s", e.Format, e.Msg)
	}
}

func parseErrf(format string, line int, msg string, args ...any) *ParseError {
	return &ParseError{Format: format, Line: line, Msg: fmt.Sprintf(msg, args...)}
}
