package strategy

import (
	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

const (
	// ParamName is the query parameter carrying the requested sort key.
	ParamName = "sort"

	KeyCounty   = "county"
	KeyWaterway = "waterway"
)

type Strategy interface {
	// Key is the sort key reported to the template as sort_type.
	Key() string
	Sort(trips []trip.Trip)
}

// ForParam picks the strategy for a raw "sort" value. Only an exact "county"
// selects county ordering; anything else, including an empty value, falls back
// to waterway ordering.
func ForParam(value string) Strategy {
	if value == KeyCounty {
		return NewCountyStrategy()
	}
	return NewWaterwayStrategy()
}
