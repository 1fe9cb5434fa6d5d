package service

import (
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/deppfellow/devevent/internal/errs"
	"github.com/deppfellow/devevent/internal/model"
	"github.com/deppfellow/devevent/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	return httpErr
}

func newEventService(store *fakeEventStore, cache *fakeCache) *EventService {
	return NewEventService(store, cache, mustPolicy("https://res.cloudinary.com"))
}

func TestGetEventBySlug_SanitizesAndCaches(t *testing.T) {
	store := &fakeEventStore{events: []model.Event{sampleEvent("React Summit", "react-summit", "2025-11-07", "react")}}
	cache := newFakeCache()
	svc := newEventService(store, cache)

	event, err := svc.GetEventBySlug(t.Context(), "  React-Summit ")
	require.NoError(t, err)
	assert.Equal(t, "React Summit", event.Title)
	assert.Contains(t, cache.entries, "react-summit")

	_, err = svc.GetEventBySlug(t.Context(), "react-summit")
	require.NoError(t, err)
	assert.Equal(t, 1, store.lookups, "second lookup is served from cache")
}

func TestGetEventBySlug_Errors(t *testing.T) {
	svc := newEventService(&fakeEventStore{}, newFakeCache())

	httpErr := asHTTPError(t, func() error { _, err := svc.GetEventBySlug(t.Context(), "   "); return err }())
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Invalid or missing slug parameter", httpErr.Message)

	httpErr = asHTTPError(t, func() error { _, err := svc.GetEventBySlug(t.Context(), "react--summit"); return err }())
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Invalid slug format", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "slug", httpErr.Errors[0].Field)
	assert.Equal(t, validation.SlugFormatMessage, httpErr.Errors[0].Error)

	httpErr = asHTTPError(t, func() error { _, err := svc.GetEventBySlug(t.Context(), "Missing"); return err }())
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Event with slug 'missing' not found", httpErr.Message)
}

func TestGetEventBySlug_StoreFailureIsGeneric(t *testing.T) {
	svc := newEventService(&fakeEventStore{err: errStoreDown}, newFakeCache())

	_, err := svc.GetEventBySlug(t.Context(), "react-summit")
	httpErr := asHTTPError(t, err)

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Failed to fetch event", httpErr.Message)
	assert.NotContains(t, httpErr.Message, "connection refused")
}

func TestGetEventBySlug_CacheFailureFallsThrough(t *testing.T) {
	store := &fakeEventStore{events: []model.Event{sampleEvent("React Summit", "react-summit", "2025-11-07", "react")}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	event, err := newEventService(store, cache).GetEventBySlug(t.Context(), "react-summit")
	require.NoError(t, err)
	assert.Equal(t, "react-summit", event.Slug)
}

func TestListEvents_AppliesPagingDefaults(t *testing.T) {
	store := &fakeEventStore{}
	svc := newEventService(store, newFakeCache())

	page, err := svc.ListEvents(t.Context(), model.EventFilter{Tag: " Go "})
	require.NoError(t, err)
	assert.Equal(t, 1, store.filter.Page)
	assert.Equal(t, DefaultPageLimit, store.filter.Limit)
	assert.Equal(t, "go", store.filter.Tag)
	assert.NotNil(t, page.Data)

	_, err = svc.ListEvents(t.Context(), model.EventFilter{Page: 2, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxPageLimit, store.filter.Limit)
}

func TestListEvents_PagePastTheEndIsEmpty(t *testing.T) {
	store := &fakeEventStore{events: []model.Event{
		sampleEvent("React Summit", "react-summit", "2025-11-07", "react"),
	}}
	svc := newEventService(store, newFakeCache())

	page, err := svc.ListEvents(t.Context(), model.EventFilter{Page: math.MaxInt64 / 50, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, store.filter.Offset())
	assert.Empty(t, page.Data)
	assert.Equal(t, 1, page.Total)
}

func TestGetSimilarEvents(t *testing.T) {
	store := &fakeEventStore{events: []model.Event{
		sampleEvent("React Summit", "react-summit", "2025-11-07", "react", "frontend"),
		sampleEvent("Vue Conf", "vue-conf", "2025-12-01", "frontend"),
		sampleEvent("GopherCon", "gophercon", "2025-10-01", "go"),
	}}
	svc := newEventService(store, newFakeCache())

	similar, err := svc.GetSimilarEvents(t.Context(), "react-summit")
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "vue-conf", similar[0].Slug)

	similar, err = svc.GetSimilarEvents(t.Context(), "gophercon")
	require.NoError(t, err)
	assert.NotNil(t, similar)
	assert.Empty(t, similar)

	_, err = svc.GetSimilarEvents(t.Context(), "nope")
	assert.Equal(t, http.StatusNotFound, asHTTPError(t, err).Status)
}

func newEventInput() model.NewEvent {
	return model.NewEvent{
		Title:       "  React Summit 2025 ",
		Description: "The biggest React conference.",
		Overview:    "Two days of talks.",
		Image:       "https://res.cloudinary.com/demo/image/upload/react.png",
		Venue:       "Kromhouthal",
		Location:    "Amsterdam, NL",
		Date:        "Nov 7, 2025",
		Time:        "10:00 AM",
		Mode:        model.EventModeHybrid,
		Audience:    "Frontend developers",
		Agenda:      []string{" Keynote ", ""},
		Organizer:   "GitNation",
		Tags:        []string{"React", "Frontend", "react"},
	}
}

func TestCreateEvent_Normalizes(t *testing.T) {
	svc := newEventService(&fakeEventStore{}, newFakeCache())

	event, err := svc.CreateEvent(t.Context(), newEventInput())
	require.NoError(t, err)

	assert.Equal(t, "React Summit 2025", event.Title)
	assert.Equal(t, "react-summit-2025", event.Slug)
	assert.Equal(t, "2025-11-07", event.Date)
	assert.Equal(t, "10:00", event.Time)
	assert.Equal(t, []string{"react", "frontend"}, event.Tags)
	assert.Equal(t, []string{"Keynote"}, event.Agenda)
}

func TestCreateEvent_RejectsImageHost(t *testing.T) {
	svc := newEventService(&fakeEventStore{}, newFakeCache())

	in := newEventInput()
	in.Image = "https://evil.example.com/x.png"

	_, err := svc.CreateEvent(t.Context(), in)
	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Image host is not allowed", httpErr.Message)
}

func TestCreateEvent_InvalidDateAndTime(t *testing.T) {
	svc := newEventService(&fakeEventStore{}, newFakeCache())

	in := newEventInput()
	in.Date = "someday"
	in.Time = "noon-ish"

	_, err := svc.CreateEvent(t.Context(), in)
	httpErr := asHTTPError(t, err)

	fields := map[string]bool{}
	for _, fe := range httpErr.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["date"])
	assert.True(t, fields["time"])
}

func TestCreateEvent_DuplicateSlugReachesCaller(t *testing.T) {
	store := &fakeEventStore{events: []model.Event{sampleEvent("React Summit 2025", "react-summit-2025", "2025-11-07", "react")}}
	svc := newEventService(store, newFakeCache())

	_, err := svc.CreateEvent(t.Context(), newEventInput())
	require.Error(t, err)

	var httpErr *errs.HTTPError
	assert.False(t, errors.As(err, &httpErr), "database errors are mapped by the global error handler")
}
