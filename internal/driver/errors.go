package driver

import "errors"

var (
	// ErrHeadingNotFound is returned when the page has no article heading.
	ErrHeadingNotFound = errors.New("article heading not found")

	// ErrNoPage is returned when a page is queried before any navigation.
	ErrNoPage = errors.New("no page loaded")

	// ErrStaleElement is returned when a paragraph or link handle belongs to
	// an earlier page or does not exist on the current one.
	ErrStaleElement = errors.New("stale element reference")

	// ErrClosed is returned when the driver is used after Close.
	ErrClosed = errors.New("driver closed")

	// ErrUnknownBackend is returned by ParseBackend for unsupported names.
	ErrUnknownBackend = errors.New("unknown driver backend")
)
