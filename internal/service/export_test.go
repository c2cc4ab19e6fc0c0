package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharefare/backend/internal/domain"
	"github.com/sharefare/backend/internal/service"
)

func TestExportService_OneRowPerRequest(t *testing.T) {
	ride := validRide()
	ride.ID = uuid.New()
	ride.PendingJoinRequests = []domain.JoinRequest{pendingRequest(), pendingRequest()}

	r := &mockRideRepo{
		listByCreator: func(_ context.Context, _ string) ([]domain.Ride, error) {
			return []domain.Ride{ride}, nil
		},
	}
	svc := service.NewExportService(r)

	rows, err := svc.ExportByCreator(context.Background(), "creator-1")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ride.ID.String(), rows[0].RideID)
	assert.Equal(t, ride.Pickup, rows[0].Pickup)
	assert.Equal(t, ride.PendingJoinRequests[0].ID.String(), rows[0].RequestID)
	assert.Equal(t, ride.PendingJoinRequests[1].ID.String(), rows[1].RequestID)
	assert.Equal(t, "pending", rows[0].RequestStatus)
}

func TestExportService_RideWithoutRequests(t *testing.T) {
	ride := validRide()
	ride.ID = uuid.New()

	r := &mockRideRepo{
		listByCreator: func(_ context.Context, _ string) ([]domain.Ride, error) {
			return []domain.Ride{ride}, nil
		},
	}
	svc := service.NewExportService(r)

	rows, err := svc.ExportByCreator(context.Background(), "creator-1")

	require.NoError(t, err)
	// A ride with no requests still appears, with empty request fields.
	require.Len(t, rows, 1)
	assert.Equal(t, ride.ID.String(), rows[0].RideID)
	assert.Empty(t, rows[0].RequestID)
	assert.Empty(t, rows[0].RequesterName)
	assert.Nil(t, rows[0].RequestedAt)
}

func TestExportService_NoRides(t *testing.T) {
	r := &mockRideRepo{
		listByCreator: func(_ context.Context, _ string) ([]domain.Ride, error) { return nil, nil },
	}
	svc := service.NewExportService(r)

	rows, err := svc.ExportByCreator(context.Background(), "creator-1")

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_MissingCreatorID(t *testing.T) {
	svc := service.NewExportService(&mockRideRepo{})

	_, err := svc.ExportByCreator(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExportService_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockRideRepo{
		listByCreator: func(_ context.Context, _ string) ([]domain.Ride, error) { return nil, repoErr },
	}
	svc := service.NewExportService(r)

	_, err := svc.ExportByCreator(context.Background(), "creator-1")

	assert.ErrorIs(t, err, repoErr)
}
