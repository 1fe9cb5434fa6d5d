package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/deppfellow/devevent/internal/lib/images"
	"github.com/deppfellow/devevent/internal/lib/job"
	"github.com/deppfellow/devevent/internal/model"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeEventStore struct {
	mu      sync.Mutex
	events  []model.Event
	err     error
	lookups int
	filter  model.EventFilter
}

func (f *fakeEventStore) GetEventBySlug(_ context.Context, slug string) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.events {
		if f.events[i].Slug == slug {
			e := f.events[i]
			return &e, nil
		}
	}
	return nil, fmt.Errorf("table:events: %w", pgx.ErrNoRows)
}

func (f *fakeEventStore) GetEventByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.events {
		if f.events[i].ID == id {
			e := f.events[i]
			return &e, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEventStore) ListEvents(_ context.Context, filter model.EventFilter) (*model.PaginatedResponse[model.Event], error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	if filter.Offset() < 0 {
		return nil, errors.New("negative offset")
	}

	var data []model.Event
	if offset := filter.Offset(); offset < len(f.events) {
		data = f.events[offset:min(len(f.events), offset+filter.Limit)]
	}
	return model.NewPaginatedResponse(data, filter.Page, filter.Limit, len(f.events)), nil
}

func (f *fakeEventStore) GetSimilarEvents(_ context.Context, event *model.Event, limit int) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.ID == event.ID || len(out) == limit {
			continue
		}
		for _, tag := range e.Tags {
			if contains(event.Tags, tag) {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeEventStore) CreateEvent(_ context.Context, in model.NewEvent) (*model.Event, error) {
	for _, e := range f.events {
		if e.Slug == in.Slug {
			return nil, &pgconn.PgError{Code: "23505", TableName: "events", ConstraintName: "events_slug_key"}
		}
	}
	e := model.Event{
		Base:        model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Overview:    in.Overview,
		Image:       in.Image,
		Venue:       in.Venue,
		Location:    in.Location,
		Date:        in.Date,
		Time:        in.Time,
		Mode:        in.Mode,
		Audience:    in.Audience,
		Agenda:      in.Agenda,
		Organizer:   in.Organizer,
		Tags:        in.Tags,
	}
	f.events = append(f.events, e)
	return &e, nil
}

func (f *fakeEventStore) ListEventsOnDate(_ context.Context, date string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

type fakeCache struct {
	entries map[string]model.Event
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]model.Event{}}
}

func (c *fakeCache) Get(_ context.Context, slug string) (*model.Event, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if e, ok := c.entries[slug]; ok {
		return &e, nil
	}
	return nil, nil
}

func (c *fakeCache) Set(_ context.Context, event *model.Event) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[event.Slug] = *event
	return nil
}

type fakeBookingStore struct {
	bookings []model.Booking
	err      error
}

func (f *fakeBookingStore) CreateBooking(_ context.Context, in model.NewBooking) (*model.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bookings {
		if b.EventID == in.EventID && b.Email == in.Email {
			return nil, &pgconn.PgError{Code: "23505", TableName: "bookings", ConstraintName: "bookings_event_id_email_key"}
		}
	}
	b := model.Booking{
		Base:    model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		EventID: in.EventID,
		Slug:    in.Slug,
		Email:   in.Email,
	}
	f.bookings = append(f.bookings, b)
	return &b, nil
}

func (f *fakeBookingStore) CountBookingsByEvent(_ context.Context, eventID uuid.UUID) (int, error) {
	n := 0
	for _, b := range f.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingStore) ListBookingsByEvent(_ context.Context, eventID uuid.UUID) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeQueue mimics asynq rejecting a reminder whose task id is already queued.
type fakeQueue struct {
	tasks []*asynq.Task
	ids   map[string]bool
	err   error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{ids: map[string]bool{}}
}

func (q *fakeQueue) Enqueue(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	if task.Type() == job.TaskEventReminder {
		var p job.BookingEmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return nil, err
		}
		id := job.ReminderTaskID(p.BookingID)
		if q.ids[id] {
			return nil, asynq.ErrTaskIDConflict
		}
		q.ids[id] = true
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

var errStoreDown = errors.New("connection refused")

func mustPolicy(patterns ...string) *images.Policy {
	p, err := images.NewPolicy(patterns)
	if err != nil {
		panic(err)
	}
	return p
}

func sampleEvent(title, slug, date string, tags ...string) model.Event {
	return model.Event{
		Base:     model.Base{ID: uuid.New()},
		Title:    title,
		Slug:     slug,
		Date:     date,
		Time:     "09:30",
		Mode:     model.EventModeOffline,
		Venue:    "Hall 1",
		Location: "Berlin",
		Tags:     tags,
	}
}
