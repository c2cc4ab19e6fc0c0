package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharefare/backend/internal/domain"
	"github.com/sharefare/backend/internal/repo"
)

// ExportService assembles a flat export of one creator's rides and their
// join requests.
type ExportService struct {
	rides repo.RideRepo
}

// NewExportService constructs an ExportService backed by the provided RideRepo.
func NewExportService(rides repo.RideRepo) *ExportService {
	return &ExportService{rides: rides}
}

// ExportByCreator returns one ExportRow per join request across all of the
// creator's rides. Rides with no requests contribute one row with empty
// request fields. Always returns a non-nil slice.
func (s *ExportService) ExportByCreator(ctx context.Context, creatorID string) ([]domain.ExportRow, error) {
	if strings.TrimSpace(creatorID) == "" {
		return nil, fmt.Errorf("%w: creator id is required", domain.ErrValidation)
	}

	rides, err := s.rides.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.ExportByCreator: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(rides))
	for _, ride := range rides {
		base := domain.ExportRow{
			RideID:      ride.ID.String(),
			Pickup:      ride.Pickup,
			Destination: ride.Destination,
			Datetime:    ride.Datetime,
			Seats:       ride.SeatsAvailable,
		}

		if len(ride.PendingJoinRequests) == 0 {
			rows = append(rows, base)
			continue
		}

		for _, req := range ride.PendingJoinRequests {
			row := base
			row.RequestID = req.ID.String()
			row.RequesterName = req.Name
			row.RequestContact = req.Contact
			row.RequestMessage = req.Message
			row.RequestStatus = string(req.Status)
			createdAt := req.CreatedAt
			row.RequestedAt = &createdAt
			rows = append(rows, row)
		}
	}

	return rows, nil
}
