package trip

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrColumnType    = errors.New("incompatible column type")
	ErrNullColumn    = errors.New("null value in required column")
)

// Row gives named-column access to one result row with typed extraction.
// Implementations return ErrMissingColumn when the column is not part of the
// row and ErrColumnType when the stored value cannot be converted.
type Row interface {
	Uint32(column string) (uint32, error)
	// String fails with ErrNullColumn when the value is NULL.
	String(column string) (string, error)
	// NullString returns nil for a NULL value.
	NullString(column string) (*string, error)
}

// Decoder is implemented by values that can populate themselves from a Row.
type Decoder interface {
	DecodeRow(row Row) error
}

// DecodeError reports the column that could not be decoded.
type DecodeError struct {
	Column string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode column %q: %v", e.Column, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
