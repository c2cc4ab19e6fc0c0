package domain

import (
	"time"

	"github.com/google/uuid"
)

// JoinRequestStatus is the approval state of a join request.
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestAccepted JoinRequestStatus = "accepted"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// JoinRequest is a rider's request to join a specific ride, embedded in the
// owning Ride document.
//
// Status is append-only: the only legal transitions are pending→accepted and
// pending→rejected, and a resolved request is immutable. The service enforces
// this; the type just records the state.
type JoinRequest struct {
	// ID is assigned by the server at submission time. Moderation can
	// address a request either by its position in the ride's list or by
	// this id; the id stays valid even if list positions ever shift.
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Contact   string            `json:"contact"`
	Message   string            `json:"message,omitempty"`
	Status    JoinRequestStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Resolved reports whether the request has reached a terminal status.
func (r JoinRequest) Resolved() bool {
	return r.Status != JoinRequestPending
}
