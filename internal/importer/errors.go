package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownImportType is returned for an import type other than gigs or assets.
	ErrUnknownImportType = errors.New("unknown import type")
	// ErrRowNotFound is returned when no row carries the requested index.
	ErrRowNotFound = errors.New("row not found")
	// ErrRowNotEditable is returned when editing a row outside the invalid set.
	ErrRowNotEditable = errors.New("row is not editable")
	// ErrUnknownField is returned when editing a column the schema does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidEncoding is wrapped by ParseError for non UTF-8 input.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
	// ErrMissingHeader is wrapped by ParseError when the file has no header row.
	ErrMissingHeader = errors.New("missing header row")
)

// ParseError aborts an import before any row is validated.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing file: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parsing file: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
