package strategy

import (
	"slices"
	"strings"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

type waterwayStrategy struct{}

func (waterwayStrategy) Key() string {
	return KeyWaterway
}

func (waterwayStrategy) Sort(trips []trip.Trip) {
	slices.SortFunc(trips, func(a, b trip.Trip) int {
		return strings.Compare(a.Waterway, b.Waterway)
	})
}

func NewWaterwayStrategy() Strategy {
	return waterwayStrategy{}
}
