package store

import (
	"context"
	"fmt"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

// ActiveTripsQuery selects every listed trip. date is part of the shape the
// trips table is queried with elsewhere and is dropped on decode.
const ActiveTripsQuery = "SELECT id,name,county,waterway,start,finish,date from trips where active = 1"

// ActiveTrips fetches and decodes the active trips on conn. Any query or
// decode failure aborts the whole fetch.
func ActiveTrips(ctx context.Context, conn Conn) ([]trip.Trip, error) {
	trips := []trip.Trip{}

	err := conn.Each(ctx, ActiveTripsQuery, func(row trip.Row) error {
		t, err := trip.Decode(row)
		if err != nil {
			return err
		}
		trips = append(trips, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch active trips: %w", err)
	}

	return trips, nil
}
