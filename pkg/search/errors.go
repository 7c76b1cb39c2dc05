package search

import "errors"

var (
	// ErrNotImplemented is returned for option combinations the locator
	// does not support, such as case-sensitive search over rounded values.
	ErrNotImplemented = errors.New("search: option combination not implemented")
	// ErrLiteralType is returned when a literal value search meets an element
	// that is not a string, integer or float.
	ErrLiteralType = errors.New("search: literal search needs string, integer or float values")
)
