package errors

import "errors"

// Error is a coded error carrying optional metadata for message rendering.
type Error struct {
	Code     Code
	Metadata map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Code)
}

// New returns a coded error without metadata.
func New(code Code) *Error {
	return &Error{Code: code}
}

// WithMeta returns a coded error carrying rendering metadata.
func WithMeta(code Code, metadata map[string]string) *Error {
	return &Error{Code: code, Metadata: metadata}
}

// CodeOf extracts the code from an error chain, or CodeUnknown.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeUnknown
}

// MetadataOf extracts rendering metadata from an error chain, if any.
func MetadataOf(err error) map[string]string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Metadata
	}
	return nil
}
