package link

import "errors"

var (
	// ErrNotFound is returned for unknown link and puzzle codes alike.
	ErrNotFound = errors.New("link not found")

	// ErrStorage wraps record store faults.
	ErrStorage = errors.New("link storage failure")
)
