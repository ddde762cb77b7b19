// Package iso implements the ISO8583 field model: the polymorphic Field
// hierarchy (fixed, variable-length, and bitmap fields), the Spec that ties
// a field layout together, and the parsed IsoMsg it produces.
package iso

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by the constructor functions below, so callers
// can match on cause with errors.Is independent of the formatted message.
var (
	ErrFieldNotDefined  = errors.New("field not defined in spec")
	ErrShortRead        = errors.New("insufficient bytes to satisfy field")
	ErrFieldLengthLimit = errors.New("field length exceeds declared maximum")
	ErrInvalidDigit     = errors.New("invalid digit in length indicator")
	ErrFieldDataMissing = errors.New("bitmap indicates field present but no data was set")
	ErrSpecNotFound     = errors.New("spec not registered")
)

// ParseError reports a failure while decoding a single field or frame. It is
// local to the byte layout: bad length indicators, truncated reads, unknown
// positions. ParseError is recoverable in the sense that the connection can
// report it and move on to the next frame.
type ParseError struct {
	Field string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse error: %v", e.Cause)
	}

	return fmt.Sprintf("parse error: field %q: %v", e.Field, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func newParseError(field string, cause error) *ParseError {
	return &ParseError{Field: field, Cause: cause}
}

// IsoError reports a failure at the spec or message-processing level: a spec
// lookup that fails, a processor that rejects a well-formed message for
// business reasons. Distinct from ParseError because it is not about wire
// bytes, and distinct from IsoServerError because it does not bring the
// server down.
type IsoError struct {
	Message string
	Cause   error
}

func (e *IsoError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

func (e *IsoError) Unwrap() error { return e.Cause }

// NewIsoError builds an IsoError with an optional wrapped cause.
func NewIsoError(message string, cause error) *IsoError {
	return &IsoError{Message: message, Cause: cause}
}

// IsoServerError reports a failure that prevents the server from starting or
// continuing to run at all, e.g. a bind failure. It is always fatal to the
// process that owns the listener.
type IsoServerError struct {
	Message string
	Cause   error
}

func (e *IsoServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

func (e *IsoServerError) Unwrap() error { return e.Cause }

// NewIsoServerError builds an IsoServerError with an optional wrapped cause.
func NewIsoServerError(message string, cause error) *IsoServerError {
	return &IsoServerError{Message: message, Cause: cause}
}
