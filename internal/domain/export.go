package domain

import "time"

// ExportRow is a single row in a creator's ride export.
// It is a flat, denormalized view: one row per join request, with ride fields
// repeated for every request on that ride. Rides with no requests yield one
// row with zero values for all request fields.
type ExportRow struct {
	// Ride fields — repeated for every join request on the ride.
	RideID      string
	Pickup      string
	Destination string
	Datetime    *time.Time // nil when the creator left departure time unset
	Seats       int

	// Join request fields — zero values when the ride has no requests.
	RequestID      string
	RequesterName  string
	RequestContact string
	RequestMessage string
	RequestStatus  string
	RequestedAt    *time.Time
}
