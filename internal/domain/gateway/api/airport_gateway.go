package api

import (
	"context"
	"time"

	"go-ingest/internal/domain/model/external"
)

// AirportGateway searches AeroDataBox for airports around a location
type AirportGateway interface {
	SearchByLocation(ctx context.Context, lat, lon float64) ([]external.AirportItem, error)
}

// FlightGateway lists scheduled arrivals of an airport on AeroDataBox
type FlightGateway interface {
	// GetArrivals returns the movements of iata between from and to, in the airport's local time.
	GetArrivals(ctx context.Context, iata string, from, to time.Time) ([]external.FlightItem, error)
}

// AeroDataBoxGateway serves airports and flights from the same upstream account
type AeroDataBoxGateway interface {
	AirportGateway
	FlightGateway
}
