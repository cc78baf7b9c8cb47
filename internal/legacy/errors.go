package legacy

import (
	"errors"
	"fmt"
)

// Failures from the portal are kept distinguishable so callers can log
// outages separately from bad credentials or scraping breakage, even where
// the user-facing message collapses them.

type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("legacy portal %s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("legacy portal parse %s: %v", e.Op, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

var (
	// ErrAuthRejected means the portal answered and refused the credentials.
	ErrAuthRejected = errors.New("legacy portal rejected credentials")
	// ErrNoMatch means clearance lookup returned no usable record.
	ErrNoMatch = errors.New("no matching clearance record")
)
