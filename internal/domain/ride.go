// Package domain contains the core data types for the ShareFare carpool API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Coordinates is an optional geocoded point attached to a location label.
// Values come straight from the client's geocoder; the server stores them
// opaquely and performs no range validation.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ride represents a single posted carpool offer.
// A ride is the top-level aggregate; join requests are embedded in it and
// never exist on their own.
//
// JSON field names are camelCase because the web client consumes these
// shapes verbatim.
type Ride struct {
	ID        uuid.UUID `json:"id"`
	CreatorID string    `json:"creatorId"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`

	// Pickup and Destination are free-text labels from the client's
	// geocoder. The matching in search is substring containment, never
	// equality, because geocoded labels are long and noisy.
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`

	PickupCoords      *Coordinates `json:"pickupCoords,omitempty"`
	DestinationCoords *Coordinates `json:"destinationCoords,omitempty"`

	// SeatsAvailable is informational. Accepting a join request does not
	// decrement it and submissions are not refused when it reaches zero.
	SeatsAvailable int `json:"seatsAvailable"`

	// Datetime is the planned departure. Nil when the creator left it out;
	// past values are allowed and rides never expire automatically.
	Datetime *time.Time `json:"datetime,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// PendingJoinRequests holds every join request ever submitted for this
	// ride, in insertion order. The zero-based position within this slice
	// is the index the moderation endpoints address; it is stable because
	// requests are only ever appended, never removed or reordered.
	PendingJoinRequests []JoinRequest `json:"pendingJoinRequests"`
}
