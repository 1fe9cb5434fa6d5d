package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/devevent/internal/errs"
	"github.com/deppfellow/devevent/internal/lib/job"
	"github.com/deppfellow/devevent/internal/lib/utils"
	"github.com/deppfellow/devevent/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type BookingService struct {
	events   *EventService
	bookings bookingStore
	jobs     taskEnqueuer
}

func NewBookingService(events *EventService, bookings bookingStore, jobs taskEnqueuer) *BookingService {
	return &BookingService{
		events:   events,
		bookings: bookings,
		jobs:     jobs,
	}
}

// CreateBooking reserves a seat for in.Email at the event in.EventID.
//
// The slug sent by the client must be the event's slug. On success a
// confirmation email is queued; a queue failure is logged and the booking
// still succeeds.
func (s *BookingService) CreateBooking(ctx context.Context, in model.NewBooking) (*model.Booking, error) {
	logger := zerolog.Ctx(ctx)

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Slug = utils.SanitizeSlug(in.Slug)

	event, err := s.events.events.GetEventByID(ctx, in.EventID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewNotFoundError("Event not found", true, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", in.EventID, err)
	}

	if event.Slug != in.Slug {
		return nil, errs.NewBadRequestError("Slug does not match event", true, nil, []errs.FieldError{
			{Field: "slug", Error: "does not match the event"},
		}, nil)
	}

	booking, err := s.bookings.CreateBooking(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create booking for event %s: %w", event.Slug, err)
	}

	logger.Info().
		Str("booking_id", booking.ID.String()).
		Str("event_slug", event.Slug).
		Msg("booking created")

	s.enqueueConfirmation(ctx, event, booking)

	return booking, nil
}

func (s *BookingService) enqueueConfirmation(ctx context.Context, event *model.Event, booking *model.Booking) {
	logger := zerolog.Ctx(ctx)

	task, err := job.NewBookingConfirmationTask(bookingEmailPayload(event, booking))
	if err != nil {
		logger.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to build booking confirmation task")
		return
	}

	if _, err := s.jobs.Enqueue(ctx, task); err != nil {
		logger.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to enqueue booking confirmation email")
	}
}

func bookingEmailPayload(event *model.Event, booking *model.Booking) job.BookingEmailPayload {
	return job.BookingEmailPayload{
		BookingID:     booking.ID,
		To:            booking.Email,
		EventTitle:    event.Title,
		EventSlug:     event.Slug,
		EventDate:     event.Date,
		EventTime:     event.Time,
		EventVenue:    event.Venue,
		EventLocation: event.Location,
		EventMode:     string(event.Mode),
	}
}

// BookingCount is the number of bookings for one event.
type BookingCount struct {
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// CountBookings reports how many people booked the event identified by slug.
func (s *BookingService) CountBookings(ctx context.Context, rawSlug string) (*BookingCount, error) {
	event, err := s.events.GetEventBySlug(ctx, rawSlug)
	if err != nil {
		return nil, err
	}

	count, err := s.bookings.CountBookingsByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count bookings for %s: %w", event.Slug, err)
	}

	return &BookingCount{Slug: event.Slug, Count: count}, nil
}
