package store

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

// valuesRow adapts driver values keyed by column name to trip.Row. Drivers
// disagree on Go types for the same SQL type, so text arrives as string or
// []byte and integers as any signed or unsigned width.
type valuesRow map[string]any

func newValuesRow(columns []string, values []any) valuesRow {
	row := make(valuesRow, len(columns))
	for i, column := range columns {
		row[strings.ToLower(column)] = values[i]
	}
	return row
}

func (r valuesRow) lookup(column string) (any, error) {
	v, ok := r[column]
	if !ok {
		return nil, trip.ErrMissingColumn
	}
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return v, nil
}

func (r valuesRow) Uint32(column string) (uint32, error) {
	v, err := r.lookup(column)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, trip.ErrNullColumn
	}

	switch v.(type) {
	case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
	default:
		return 0, fmt.Errorf("%w: %T", trip.ErrColumnType, v)
	}

	n, err := cast.ToUint64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", trip.ErrColumnType, err)
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d overflows uint32", trip.ErrColumnType, n)
	}
	return uint32(n), nil
}

func (r valuesRow) String(column string) (string, error) {
	v, err := r.lookup(column)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", trip.ErrNullColumn
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %T", trip.ErrColumnType, v)
	}
	return s, nil
}

func (r valuesRow) NullString(column string) (*string, error) {
	v, err := r.lookup(column)
	if err != nil || v == nil {
		return nil, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %T", trip.ErrColumnType, v)
	}
	return &s, nil
}
