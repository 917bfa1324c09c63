package strategy

import (
	"slices"
	"strings"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

type countyStrategy struct{}

func (countyStrategy) Key() string {
	return KeyCounty
}

func (countyStrategy) Sort(trips []trip.Trip) {
	slices.SortFunc(trips, func(a, b trip.Trip) int {
		return strings.Compare(a.County, b.County)
	})
}

func NewCountyStrategy() Strategy {
	return countyStrategy{}
}
