package simlog

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBodySentinel is returned when a billing log has no `body` line.
	ErrMissingBodySentinel = errors.New("billing log has no body sentinel line")
	// ErrInvalidBucketWidth is returned for a non-positive bucket width.
	ErrInvalidBucketWidth = errors.New("bucket width must be positive")
	// ErrUnorderedEvents is returned when aggregation input goes backwards in time.
	ErrUnorderedEvents = errors.New("events are not in time order")
	// ErrBucketOverflow is returned when a bucket edge would not fit in an int64.
	ErrBucketOverflow = errors.New("bucket edge overflows int64")
)

// MissingInputError reports that a declared input file does not exist.
// Callers typically skip the affected series and continue with the others.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("could not find input file: %s", e.Path)
}

func (e *MissingInputError) Unwrap() error { return e.Err }

// MalformedRecordError reports a token that does not fit the declared format.
// Index is the 0-based position of the offending token in the delimited stream
// (or the 0-based line/row number for line-oriented sections).
type MalformedRecordError struct {
	Index  int
	Token  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at token %d (%q): %s", e.Index, e.Token, e.Reason)
}

// EmptyReferenceError reports a reference source without any data rows.
type EmptyReferenceError struct {
	Source string
}

func (e *EmptyReferenceError) Error() string {
	if e.Source == "" {
		return "reference series has no data rows"
	}
	return fmt.Sprintf("reference series %s has no data rows", e.Source)
}
