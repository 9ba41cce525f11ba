package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned by Load when the source cannot be opened.
	ErrSourceNotFound = errors.New("source not found")
	// ErrUnknownAggregation is returned by Agg for an operation outside
	// sum, mean, count, min, max and median.
	ErrUnknownAggregation = errors.New("unknown aggregation")
	// ErrUnknownJoin is returned by ParseJoinType.
	ErrUnknownJoin = errors.New("unknown join type")
	// ErrColumnIndex is returned when a positional selection is out of range.
	ErrColumnIndex = errors.New("column index out of range")
	// ErrBadCondition is returned by ParseCondition for malformed input.
	ErrBadCondition = errors.New("bad condition")
)

// RowWidthMismatch records a data line with more fields than the header.
// The row is kept and truncated; the mismatch is reported, never returned.
type RowWidthMismatch struct {
	Line int // 1-based among non-blank lines; the header is line 1
	Got  int
	Want int
}

func (e *RowWidthMismatch) Error() string {
	return fmt.Sprintf("line %d has %d values (expected %d); truncating extras", e.Line, e.Got, e.Want)
}
