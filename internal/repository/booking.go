package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/devevent/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `
	id,
	event_id,
	slug,
	email,
	created_at,
	updated_at`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateBooking inserts a booking. Booking the same event twice with one
// email violates bookings_event_id_email_key.
func (r *BookingRepository) CreateBooking(ctx context.Context, in model.NewBooking) (*model.Booking, error) {
	stmt := `
	INSERT INTO
		bookings (event_id, slug, email)
	VALUES
		(@event_id, @slug, @email)
	RETURNING` + bookingColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"event_id": in.EventID,
		"slug":     in.Slug,
		"email":    in.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create booking query: %w", err)
	}

	booking, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Booking])
	if err != nil {
		return nil, fmt.Errorf("failed to collect created booking: %w", err)
	}

	return &booking, nil
}

func (r *BookingRepository) CountBookingsByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	stmt := `SELECT COUNT(*) FROM bookings WHERE event_id = @event_id`

	if err := r.pool.QueryRow(ctx, stmt, pgx.NamedArgs{"event_id": eventID}).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func (r *BookingRepository) ListBookingsByEvent(ctx context.Context, eventID uuid.UUID) ([]model.Booking, error) {
	stmt := `SELECT` + bookingColumns + `
	FROM
		bookings
	WHERE
		event_id = @event_id
	ORDER BY
		created_at ASC`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{"event_id": eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list bookings query: %w", err)
	}

	bookings, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Booking])
	if err != nil {
		return nil, fmt.Errorf("failed to collect bookings: %w", err)
	}

	return bookings, nil
}
