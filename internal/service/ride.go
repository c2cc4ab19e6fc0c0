// Package service contains the business logic for the ShareFare API.
// Services validate inputs, enforce the join-request state machine, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharefare/backend/internal/domain"
	"github.com/sharefare/backend/internal/repo"
)

// defaultStoreTimeout bounds every store call when the caller does not
// configure one. A timed-out call surfaces as domain.ErrStoreUnavailable.
const defaultStoreTimeout = 5 * time.Second

// RideService implements business logic for ride operations.
type RideService struct {
	rides        repo.RideRepo
	storeTimeout time.Duration
}

// NewRideService constructs a RideService backed by the provided RideRepo.
// storeTimeout caps each store operation; pass 0 for the default.
func NewRideService(r repo.RideRepo, storeTimeout time.Duration) *RideService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &RideService{rides: r, storeTimeout: storeTimeout}
}

// Create validates and persists a new ride. The returned ride carries the
// server-assigned id and timestamps and an empty join-request list.
// Returns domain.ErrValidation if a required field is empty.
func (s *RideService) Create(ctx context.Context, ride domain.Ride) (domain.Ride, error) {
	if err := validateRide(ride); err != nil {
		return domain.Ride{}, err
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	result, err := s.rides.Create(ctx, ride)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Create: %w", storeErr(err))
	}
	return result, nil
}

// GetByID returns a single ride by ID.
// Returns domain.ErrNotFound if no ride with that ID exists.
func (s *RideService) GetByID(ctx context.Context, id uuid.UUID) (domain.Ride, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	result, err := s.rides.GetByID(ctx, id)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.GetByID: %w", storeErr(err))
	}
	return result, nil
}

// List returns all rides, most recently created first. The service imposes
// no limit and no ownership filter — excluding the caller's own rides and
// truncating to a display window is the client's concern.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RideService) List(ctx context.Context) ([]domain.Ride, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rides, err := s.rides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RideService.List: %w", storeErr(err))
	}
	if rides == nil {
		return []domain.Ride{}, nil
	}
	return rides, nil
}

// Search returns rides whose pickup AND destination contain the given query
// strings, case-insensitively. Both fields must match; a ride matching only
// one is excluded. Returns domain.ErrValidation if either query is empty.
func (s *RideService) Search(ctx context.Context, pickup, destination string) ([]domain.Ride, error) {
	if strings.TrimSpace(pickup) == "" {
		return nil, fmt.Errorf("%w: pickup is required", domain.ErrValidation)
	}
	if strings.TrimSpace(destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rides, err := s.rides.Search(ctx, pickup, destination)
	if err != nil {
		return nil, fmt.Errorf("service.RideService.Search: %w", storeErr(err))
	}
	if rides == nil {
		return []domain.Ride{}, nil
	}
	return rides, nil
}

// ListByCreator returns all rides owned by creatorID, most recent first.
// Returns domain.ErrValidation if creatorID is empty.
func (s *RideService) ListByCreator(ctx context.Context, creatorID string) ([]domain.Ride, error) {
	if strings.TrimSpace(creatorID) == "" {
		return nil, fmt.Errorf("%w: creator id is required", domain.ErrValidation)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rides, err := s.rides.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("service.RideService.ListByCreator: %w", storeErr(err))
	}
	if rides == nil {
		return []domain.Ride{}, nil
	}
	return rides, nil
}

// Delete removes a ride and all its embedded join requests permanently.
// callerID is the creator id presented by the caller; when non-empty it must
// match the ride's owner (domain.ErrForbidden otherwise). An empty callerID
// skips the ownership check — identity is client-asserted, not authenticated.
// Returns domain.ErrNotFound if the ride does not exist.
func (s *RideService) Delete(ctx context.Context, id uuid.UUID, callerID string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if callerID != "" {
		ride, err := s.rides.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("service.RideService.Delete: %w", storeErr(err))
		}
		if ride.CreatorID != callerID {
			return fmt.Errorf("service.RideService.Delete: %w: ride belongs to another creator", domain.ErrForbidden)
		}
	}

	if err := s.rides.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.RideService.Delete: %w", storeErr(err))
	}
	return nil
}

// SubmitJoinRequest validates and appends a new pending join request to the
// ride. The request is assigned a server-side id and timestamp here; its
// index in the ride's list is observable only by re-fetching the ride.
// Returns domain.ErrValidation for missing fields, domain.ErrNotFound if the
// ride does not exist.
func (s *RideService) SubmitJoinRequest(ctx context.Context, rideID uuid.UUID, req domain.JoinRequest) (domain.JoinRequest, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.JoinRequest{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Contact) == "" {
		return domain.JoinRequest{}, fmt.Errorf("%w: contact is required", domain.ErrValidation)
	}

	req.ID = uuid.New()
	req.Status = domain.JoinRequestPending
	req.CreatedAt = time.Now().UTC()

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.rides.AppendJoinRequest(ctx, rideID, req); err != nil {
		return domain.JoinRequest{}, fmt.Errorf("service.RideService.SubmitJoinRequest: %w", storeErr(err))
	}
	return req, nil
}

// ModerateByIndex resolves the join request at the given zero-based index to
// the given terminal status. The bounds check, the pending check, and the
// write all happen under the ride's row lock, so a racing append can never
// shift the meaning of the index mid-operation.
//
// Returns domain.ErrNotFound for an unknown ride, domain.ErrIndexOutOfRange
// for an index outside the list, domain.ErrInvalidState if the request was
// already resolved, and domain.ErrForbidden if callerID is non-empty and
// does not match the ride's owner.
func (s *RideService) ModerateByIndex(ctx context.Context, rideID uuid.UUID, index int, status domain.JoinRequestStatus, callerID string) (domain.Ride, error) {
	if err := validateModeration(status); err != nil {
		return domain.Ride{}, err
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	updated, err := s.rides.MutateJoinRequests(ctx, rideID, func(ride *domain.Ride) error {
		if err := checkOwner(ride, callerID); err != nil {
			return err
		}
		if index < 0 || index >= len(ride.PendingJoinRequests) {
			return fmt.Errorf("%w: no join request at index %d", domain.ErrIndexOutOfRange, index)
		}
		return resolve(&ride.PendingJoinRequests[index], status)
	})
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.ModerateByIndex: %w", storeErr(err))
	}
	return updated, nil
}

// ModerateByID resolves the join request with the given id to the given
// terminal status. Same locking and error semantics as ModerateByIndex;
// an unknown request id yields domain.ErrNotFound.
func (s *RideService) ModerateByID(ctx context.Context, rideID, requestID uuid.UUID, status domain.JoinRequestStatus, callerID string) (domain.Ride, error) {
	if err := validateModeration(status); err != nil {
		return domain.Ride{}, err
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	updated, err := s.rides.MutateJoinRequests(ctx, rideID, func(ride *domain.Ride) error {
		if err := checkOwner(ride, callerID); err != nil {
			return err
		}
		for i := range ride.PendingJoinRequests {
			if ride.PendingJoinRequests[i].ID == requestID {
				return resolve(&ride.PendingJoinRequests[i], status)
			}
		}
		return fmt.Errorf("%w: join request %s", domain.ErrNotFound, requestID)
	})
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.ModerateByID: %w", storeErr(err))
	}
	return updated, nil
}

// storeCtx derives a request-scoped context bounding a single store call.
func (s *RideService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// storeErr translates a store-timeout failure into the retryable sentinel.
// A caller-cancelled context (context.Canceled) passes through untouched —
// that is the client abandoning the request, not the store failing.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}

// validateRide enforces the creation rules shared by all entry points.
// name, contact, pickup, and destination are required; whitespace-only
// values are rejected. Seats must not be negative.
func validateRide(ride domain.Ride) error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", ride.Name},
		{"contact", ride.Contact},
		{"pickup", ride.Pickup},
		{"destination", ride.Destination},
		{"creatorId", ride.CreatorID},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, field.name)
		}
	}
	if ride.SeatsAvailable < 0 {
		return fmt.Errorf("%w: seatsAvailable must not be negative", domain.ErrValidation)
	}
	return nil
}

// validateModeration restricts moderation to the two terminal statuses.
func validateModeration(status domain.JoinRequestStatus) error {
	if status != domain.JoinRequestAccepted && status != domain.JoinRequestRejected {
		return fmt.Errorf("%w: status must be accepted or rejected", domain.ErrValidation)
	}
	return nil
}

// checkOwner enforces the ownership invariant when the caller asserted an
// identity. creatorID equality is possession, not authentication.
func checkOwner(ride *domain.Ride, callerID string) error {
	if callerID != "" && ride.CreatorID != callerID {
		return fmt.Errorf("%w: ride belongs to another creator", domain.ErrForbidden)
	}
	return nil
}

// resolve applies the one-way pending→accepted / pending→rejected transition.
func resolve(req *domain.JoinRequest, status domain.JoinRequestStatus) error {
	if req.Resolved() {
		return fmt.Errorf("%w: join request already %s", domain.ErrInvalidState, req.Status)
	}
	req.Status = status
	return nil
}
