package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/devevent/internal/errs"
	"github.com/deppfellow/devevent/internal/lib/images"
	"github.com/deppfellow/devevent/internal/lib/utils"
	"github.com/deppfellow/devevent/internal/model"
	"github.com/deppfellow/devevent/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	DefaultPageLimit   = 20
	MaxPageLimit       = 100
	SimilarEventsLimit = 6
)

type EventService struct {
	events eventStore
	cache  eventCache
	images *images.Policy
}

func NewEventService(events eventStore, cache eventCache, imagePolicy *images.Policy) *EventService {
	return &EventService{
		events: events,
		cache:  cache,
		images: imagePolicy,
	}
}

// parseSlug sanitizes a slug taken from the URL and rejects empty or
// malformed values.
func parseSlug(raw string) (string, error) {
	slug := utils.SanitizeSlug(raw)
	if slug == "" {
		return "", errs.NewBadRequestError("Invalid or missing slug parameter", true, nil, nil, nil)
	}

	if !validation.IsValidSlug(slug) {
		return "", errs.NewBadRequestError("Invalid slug format", true, nil, []errs.FieldError{
			{Field: "slug", Error: validation.SlugFormatMessage},
		}, nil)
	}

	return slug, nil
}

// GetEventBySlug resolves an event from the slug cache, falling back to the
// database. Cache failures are logged and never reach the caller.
func (s *EventService) GetEventBySlug(ctx context.Context, rawSlug string) (*model.Event, error) {
	logger := zerolog.Ctx(ctx)

	slug, err := parseSlug(rawSlug)
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.Get(ctx, slug)
	if err != nil {
		logger.Warn().Err(err).Str("slug", slug).Msg("event cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	event, err := s.events.GetEventBySlug(ctx, slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewNotFoundError(fmt.Sprintf("Event with slug '%s' not found", slug), true, nil)
	}
	if err != nil {
		logger.Error().Err(err).Str("slug", slug).Msg("failed to fetch event by slug")
		return nil, errs.NewInternalServerError().WithMessage("Failed to fetch event")
	}

	if err := s.cache.Set(ctx, event); err != nil {
		logger.Warn().Err(err).Str("slug", slug).Msg("event cache write failed")
	}

	return event, nil
}

// ListEvents returns one page of events; page and limit fall back to 1 and
// DefaultPageLimit, and limit is capped at MaxPageLimit.
func (s *EventService) ListEvents(ctx context.Context, filter model.EventFilter) (*model.PaginatedResponse[model.Event], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))

	page, err := s.events.ListEvents(ctx, filter)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list events")
		return nil, errs.NewInternalServerError().WithMessage("Failed to fetch events")
	}

	return page, nil
}

// GetSimilarEvents returns up to SimilarEventsLimit other events sharing a
// tag with the event identified by slug.
func (s *EventService) GetSimilarEvents(ctx context.Context, rawSlug string) ([]model.Event, error) {
	event, err := s.GetEventBySlug(ctx, rawSlug)
	if err != nil {
		return nil, err
	}

	similar, err := s.events.GetSimilarEvents(ctx, event, SimilarEventsLimit)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("slug", event.Slug).Msg("failed to fetch similar events")
		return nil, errs.NewInternalServerError().WithMessage("Failed to fetch similar events")
	}

	if similar == nil {
		similar = []model.Event{}
	}
	return similar, nil
}

// CreateEvent normalizes in (slug from title, ISO date, 24h time, lower-case
// tags), checks the image host and stores the event. A duplicate slug is
// left to the database and surfaces as EVENT_ALREADY_EXISTS.
func (s *EventService) CreateEvent(ctx context.Context, in model.NewEvent) (*model.Event, error) {
	var fieldErrors []errs.FieldError

	in.Title = strings.TrimSpace(in.Title)
	in.Slug = utils.Slugify(in.Title)
	if in.Slug == "" {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "title", Error: "must contain at least one letter or digit"})
	}

	date, err := utils.NormalizeDate(in.Date)
	if err != nil {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "date", Error: "must be a valid date, e.g. 2025-11-07"})
	}
	in.Date = date

	clock, err := utils.NormalizeTime(in.Time)
	if err != nil {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "time", Error: "must be a valid time, e.g. 14:30 or 2:30 PM"})
	}
	in.Time = clock

	in.Tags = utils.NormalizeTags(in.Tags)
	if len(in.Tags) == 0 {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "tags", Error: "must contain at least 1 items"})
	}

	in.Agenda = utils.TrimAll(in.Agenda)
	if len(in.Agenda) == 0 {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "agenda", Error: "must contain at least 1 items"})
	}

	if len(fieldErrors) > 0 {
		return nil, errs.NewBadRequestError("Validation failed", true, nil, fieldErrors, nil)
	}

	in.Image = strings.TrimSpace(in.Image)
	if !s.images.Allowed(in.Image) {
		return nil, errs.NewBadRequestError("Image host is not allowed", true, nil, []errs.FieldError{
			{Field: "image", Error: "host is not allowed"},
		}, nil)
	}

	in.Description = strings.TrimSpace(in.Description)
	in.Overview = strings.TrimSpace(in.Overview)
	in.Venue = strings.TrimSpace(in.Venue)
	in.Location = strings.TrimSpace(in.Location)
	in.Audience = strings.TrimSpace(in.Audience)
	in.Organizer = strings.TrimSpace(in.Organizer)

	event, err := s.events.CreateEvent(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create event %q: %w", in.Slug, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("event_id", event.ID.String()).
		Str("slug", event.Slug).
		Msg("event created")

	return event, nil
}
