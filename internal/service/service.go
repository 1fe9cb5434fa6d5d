// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives bound
// request data from the handler, normalizes and checks it, and calls the
// repositories, the cache and the job queue.
package service

import (
	"context"

	"github.com/deppfellow/devevent/internal/model"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// The interfaces below are what the services need from the repository and
// job packages; tests satisfy them with in-memory fakes.

type eventStore interface {
	GetEventBySlug(ctx context.Context, slug string) (*model.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListEvents(ctx context.Context, filter model.EventFilter) (*model.PaginatedResponse[model.Event], error)
	GetSimilarEvents(ctx context.Context, event *model.Event, limit int) ([]model.Event, error)
	CreateEvent(ctx context.Context, in model.NewEvent) (*model.Event, error)
	ListEventsOnDate(ctx context.Context, date string) ([]model.Event, error)
}

type eventCache interface {
	Get(ctx context.Context, slug string) (*model.Event, error)
	Set(ctx context.Context, event *model.Event) error
}

type bookingStore interface {
	CreateBooking(ctx context.Context, in model.NewBooking) (*model.Booking, error)
	CountBookingsByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	ListBookingsByEvent(ctx context.Context, eventID uuid.UUID) ([]model.Booking, error)
}

type taskEnqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
