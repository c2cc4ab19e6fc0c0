// Package repo contains all database access logic for the ShareFare API.
// No business logic lives here — only SQL and type mapping.
//
// Each ride is stored as one row with its join requests in a JSONB column,
// so a ride behaves like a single document: every mutation of the embedded
// request list is atomic at row granularity.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sharefare/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
// Begin on a pgx.Tx opens a savepoint, so MutateJoinRequests works under
// test transactions too.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RideRepo defines the persistence operations for rides.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type RideRepo interface {
	// Create inserts a new ride and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, ride domain.Ride) (domain.Ride, error)

	// GetByID retrieves a single ride by its UUID primary key.
	// Returns domain.ErrNotFound if no ride with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Ride, error)

	// List returns all rides ordered by created_at descending.
	// No limit is applied; callers truncate for display.
	List(ctx context.Context) ([]domain.Ride, error)

	// Search returns rides whose pickup AND destination contain the given
	// query strings (case-insensitive), ordered by created_at descending.
	Search(ctx context.Context, pickup, destination string) ([]domain.Ride, error)

	// ListByCreator returns all rides owned by creatorID, ordered by
	// created_at descending.
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Ride, error)

	// Delete removes a ride and its embedded join requests permanently.
	// Returns domain.ErrNotFound if the ride does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AppendJoinRequest appends one join request to the ride's list in a
	// single UPDATE, so two concurrent appends can never lose each other.
	// Returns domain.ErrNotFound if the ride does not exist.
	AppendJoinRequest(ctx context.Context, rideID uuid.UUID, req domain.JoinRequest) error

	// MutateJoinRequests loads the ride under a row lock, applies fn to it,
	// and writes the (possibly modified) join-request list back before
	// releasing the lock. Any error from fn aborts the transaction and is
	// returned to the caller, so fn is where state-machine checks belong:
	// the check and the write happen under the same lock.
	// Returns domain.ErrNotFound if the ride does not exist.
	MutateJoinRequests(ctx context.Context, rideID uuid.UUID, fn func(ride *domain.Ride) error) (domain.Ride, error)
}

// rideColumns is the SELECT list shared by every query that scans a full ride.
const rideColumns = `id, creator_id, name, contact, pickup, destination,
		pickup_coords, destination_coords, seats_available, datetime, notes,
		join_requests, created_at, updated_at`

// pgRideRepo is the Postgres implementation of RideRepo.
type pgRideRepo struct {
	db db
}

// NewRideRepo constructs a RideRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRideRepo(db db) RideRepo {
	return &pgRideRepo{db: db}
}

// Create inserts a new ride row and returns the full persisted record.
func (r *pgRideRepo) Create(ctx context.Context, ride domain.Ride) (domain.Ride, error) {
	const q = `
		INSERT INTO rides (creator_id, name, contact, pickup, destination,
			pickup_coords, destination_coords, seats_available, datetime, notes)
		VALUES (@creator_id, @name, @contact, @pickup, @destination,
			@pickup_coords, @destination_coords, @seats_available, @datetime, @notes)
		RETURNING ` + rideColumns

	args := pgx.NamedArgs{
		"creator_id":         ride.CreatorID,
		"name":               ride.Name,
		"contact":            ride.Contact,
		"pickup":             ride.Pickup,
		"destination":        ride.Destination,
		"pickup_coords":      ride.PickupCoords,      // nil becomes NULL
		"destination_coords": ride.DestinationCoords, // nil becomes NULL
		"seats_available":    ride.SeatsAvailable,
		"datetime":           ride.Datetime,
		"notes":              ride.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRide(row)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a ride by primary key.
func (r *pgRideRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Ride, error) {
	const q = `SELECT ` + rideColumns + ` FROM rides WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanRide(row)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all rides, most recently created first.
func (r *pgRideRepo) List(ctx context.Context) ([]domain.Ride, error) {
	const q = `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RideRepo.List: %w", err)
	}
	defer rows.Close()

	rides, err := collectRides(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RideRepo.List: %w", err)
	}
	return rides, nil
}

// Search matches both location fields by case-insensitive containment.
// Both conditions must hold (AND): a ride matching only one field is excluded.
func (r *pgRideRepo) Search(ctx context.Context, pickup, destination string) ([]domain.Ride, error) {
	const q = `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE pickup ILIKE @pickup AND destination ILIKE @destination
		ORDER BY created_at DESC`

	args := pgx.NamedArgs{
		"pickup":      likeContains(pickup),
		"destination": likeContains(destination),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.RideRepo.Search: %w", err)
	}
	defer rows.Close()

	rides, err := collectRides(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RideRepo.Search: %w", err)
	}
	return rides, nil
}

// ListByCreator returns the rides owned by creatorID, most recent first.
func (r *pgRideRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Ride, error) {
	const q = `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE creator_id = @creator_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"creator_id": creatorID})
	if err != nil {
		return nil, fmt.Errorf("repo.RideRepo.ListByCreator: %w", err)
	}
	defer rows.Close()

	rides, err := collectRides(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RideRepo.ListByCreator: %w", err)
	}
	return rides, nil
}

// Delete removes a ride by primary key.
func (r *pgRideRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM rides WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.RideRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RideRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// AppendJoinRequest appends req to the ride's JSONB list in one statement.
// The `||` concatenation happens inside Postgres, so concurrent appends
// serialize on the row and both land at distinct indices.
func (r *pgRideRepo) AppendJoinRequest(ctx context.Context, rideID uuid.UUID, req domain.JoinRequest) error {
	const q = `
		UPDATE rides
		SET join_requests = join_requests || @request,
		    updated_at    = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": rideID, "request": req})
	if err != nil {
		return fmt.Errorf("repo.RideRepo.AppendJoinRequest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RideRepo.AppendJoinRequest: %w", domain.ErrNotFound)
	}
	return nil
}

// MutateJoinRequests runs fn against the ride inside a transaction holding
// the row lock, then persists the join-request list fn left behind.
func (r *pgRideRepo) MutateJoinRequests(ctx context.Context, rideID uuid.UUID, fn func(ride *domain.Ride) error) (domain.Ride, error) {
	const qSelect = `SELECT ` + rideColumns + ` FROM rides WHERE id = @id FOR UPDATE`
	const qUpdate = `
		UPDATE rides
		SET join_requests = @join_requests,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + rideColumns

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.MutateJoinRequests: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck — rollback after commit is a no-op

	ride, err := scanRide(tx.QueryRow(ctx, qSelect, pgx.NamedArgs{"id": rideID}))
	if err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.MutateJoinRequests: %w", err)
	}

	if err := fn(&ride); err != nil {
		// fn's error (e.g. index out of range, invalid state) aborts the
		// transaction; nothing is written.
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.MutateJoinRequests: %w", err)
	}

	args := pgx.NamedArgs{"id": rideID, "join_requests": ride.PendingJoinRequests}
	updated, err := scanRide(tx.QueryRow(ctx, qUpdate, args))
	if err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.MutateJoinRequests: write: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.MutateJoinRequests: commit: %w", err)
	}
	return updated, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanRide to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRide maps a single database row into a domain.Ride.
// It handles the UUID, nullable datetime, and JSONB conversions.
func scanRide(s scanner) (domain.Ride, error) {
	var (
		ride     domain.Ride
		id       pgtype.UUID
		datetime pgtype.Timestamptz
	)

	err := s.Scan(&id, &ride.CreatorID, &ride.Name, &ride.Contact,
		&ride.Pickup, &ride.Destination,
		&ride.PickupCoords, &ride.DestinationCoords,
		&ride.SeatsAvailable, &datetime, &ride.Notes,
		&ride.PendingJoinRequests, &ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Ride{}, domain.ErrNotFound
		}
		return domain.Ride{}, err
	}

	ride.ID = uuid.UUID(id.Bytes)
	if datetime.Valid {
		dt := datetime.Time
		ride.Datetime = &dt
	}
	if ride.PendingJoinRequests == nil {
		ride.PendingJoinRequests = []domain.JoinRequest{}
	}

	return ride, nil
}

// collectRides drains rows into a slice using scanRide.
func collectRides(rows pgx.Rows) ([]domain.Ride, error) {
	var rides []domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return rides, nil
}

// likeContains builds a containment pattern for ILIKE, escaping the LIKE
// metacharacters so user input can never widen the match.
func likeContains(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + escaped + "%"
}
