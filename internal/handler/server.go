// Package handler implements the HTTP handlers for the ShareFare API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, ride.go, export.go) but all share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sharefare/backend/internal/domain"
)

// RideServicer defines the business operations the ride handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type RideServicer interface {
	Create(ctx context.Context, ride domain.Ride) (domain.Ride, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Ride, error)
	List(ctx context.Context) ([]domain.Ride, error)
	Search(ctx context.Context, pickup, destination string) ([]domain.Ride, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Ride, error)
	Delete(ctx context.Context, id uuid.UUID, callerID string) error
	SubmitJoinRequest(ctx context.Context, rideID uuid.UUID, req domain.JoinRequest) (domain.JoinRequest, error)
	ModerateByIndex(ctx context.Context, rideID uuid.UUID, index int, status domain.JoinRequestStatus, callerID string) (domain.Ride, error)
	ModerateByID(ctx context.Context, rideID, requestID uuid.UUID, status domain.JoinRequestStatus, callerID string) (domain.Ride, error)
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	ExportByCreator(ctx context.Context, creatorID string) ([]domain.ExportRow, error)
}

// Server holds the handler dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	rides  RideServicer
	export ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(rides RideServicer, export ExportServicer) *Server {
	return &Server{rides: rides, export: export}
}

// Routes builds the API router. Ambient middleware (logging, CORS, metrics,
// body limits) is the caller's responsibility — main.go wires it around this.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.Health)
	r.Get("/openapi.yaml", s.OpenAPI)

	r.Route("/api/rides", func(r chi.Router) {
		r.Get("/", s.ListRides)
		r.Post("/add", s.CreateRide)
		r.Post("/find", s.FindRides)
		r.Get("/my/{creatorID}", s.ListMyRides)
		r.Get("/my/{creatorID}/export", s.ExportMyRides)

		r.Route("/{rideID}", func(r chi.Router) {
			r.Get("/", s.GetRide)
			r.Delete("/", s.DeleteRide)
			r.Post("/request", s.SubmitJoinRequest)

			// Index-addressed moderation: the original API shape.
			r.Patch("/accept/{index}", s.acceptByIndex)
			r.Patch("/reject/{index}", s.rejectByIndex)

			// Id-addressed moderation: stable under any future reordering.
			r.Patch("/requests/{requestID}/accept", s.acceptByID)
			r.Patch("/requests/{requestID}/reject", s.rejectByID)
		})
	})

	return r
}

// creatorIDHeader names the optional header carrying the caller's asserted
// creator id. When present on delete/moderation it must match the ride's
// owner; when absent the call is allowed through, matching the original
// unauthenticated behavior.
const creatorIDHeader = "X-Creator-Id"

func callerID(r *http.Request) string {
	return r.Header.Get(creatorIDHeader)
}
