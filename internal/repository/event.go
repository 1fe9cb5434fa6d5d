package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/devevent/internal/model"
	"github.com/deppfellow/devevent/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// eventColumns is the select list matching model.Event's db tags.
// date is rendered as text so it scans straight into a string.
const eventColumns = `
	id,
	title,
	slug,
	description,
	overview,
	image,
	venue,
	location,
	to_char(date, 'YYYY-MM-DD') AS date,
	time,
	mode,
	audience,
	agenda,
	organizer,
	tags,
	created_at,
	updated_at`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// GetEventBySlug returns the event with the given slug. A missing event
// yields an error wrapping pgx.ErrNoRows.
func (r *EventRepository) GetEventBySlug(ctx context.Context, slug string) (*model.Event, error) {
	stmt := `SELECT` + eventColumns + `
	FROM
		events
	WHERE
		slug = @slug`

	return r.getOne(ctx, stmt, pgx.NamedArgs{"slug": slug})
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	stmt := `SELECT` + eventColumns + `
	FROM
		events
	WHERE
		id = @id`

	return r.getOne(ctx, stmt, pgx.NamedArgs{"id": id})
}

func (r *EventRepository) getOne(ctx context.Context, stmt string, args pgx.NamedArgs) (*model.Event, error) {
	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute get event query: %w", err)
	}

	event, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		return nil, sqlerr.NotFoundFor("events", fmt.Errorf("failed to collect event: %w", err))
	}

	return &event, nil
}

// eventFilterClause renders the WHERE clause for a listing filter.
func eventFilterClause(filter model.EventFilter) (string, pgx.NamedArgs) {
	var conditions []string
	args := pgx.NamedArgs{}

	if filter.Tag != "" {
		conditions = append(conditions, "@tag = ANY(tags)")
		args["tag"] = strings.ToLower(filter.Tag)
	}
	if filter.Mode != "" {
		conditions = append(conditions, "mode = @mode")
		args["mode"] = string(filter.Mode)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListEvents returns one page of events, newest date first.
func (r *EventRepository) ListEvents(ctx context.Context, filter model.EventFilter) (*model.PaginatedResponse[model.Event], error) {
	where, args := eventFilterClause(filter)

	var total int
	countStmt := `SELECT COUNT(*) FROM events` + where
	if err := r.pool.QueryRow(ctx, countStmt, args).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	args["limit"] = filter.Limit
	args["offset"] = filter.Offset()

	stmt := `SELECT` + eventColumns + `
	FROM
		events` + where + `
	ORDER BY
		date DESC,
		time DESC,
		created_at DESC
	LIMIT
		@limit
	OFFSET
		@offset`

	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list events query: %w", err)
	}

	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		return nil, fmt.Errorf("failed to collect events: %w", err)
	}

	return model.NewPaginatedResponse(events, filter.Page, filter.Limit, total), nil
}

// GetSimilarEvents returns up to limit other events sharing a tag with event.
func (r *EventRepository) GetSimilarEvents(ctx context.Context, event *model.Event, limit int) ([]model.Event, error) {
	stmt := `SELECT` + eventColumns + `
	FROM
		events
	WHERE
		id <> @id
		AND tags && @tags
	ORDER BY
		date DESC
	LIMIT
		@limit`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"id":    event.ID,
		"tags":  event.Tags,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute similar events query: %w", err)
	}

	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		return nil, fmt.Errorf("failed to collect similar events: %w", err)
	}

	return events, nil
}

// CreateEvent inserts a normalized event. A duplicate slug surfaces as a
// unique violation on events_slug_key.
func (r *EventRepository) CreateEvent(ctx context.Context, in model.NewEvent) (*model.Event, error) {
	stmt := `
	INSERT INTO
		events (
			title,
			slug,
			description,
			overview,
			image,
			venue,
			location,
			date,
			time,
			mode,
			audience,
			agenda,
			organizer,
			tags
		)
	VALUES
		(
			@title,
			@slug,
			@description,
			@overview,
			@image,
			@venue,
			@location,
			@date::date,
			@time,
			@mode,
			@audience,
			@agenda,
			@organizer,
			@tags
		)
	RETURNING` + eventColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"title":       in.Title,
		"slug":        in.Slug,
		"description": in.Description,
		"overview":    in.Overview,
		"image":       in.Image,
		"venue":       in.Venue,
		"location":    in.Location,
		"date":        in.Date,
		"time":        in.Time,
		"mode":        string(in.Mode),
		"audience":    in.Audience,
		"agenda":      in.Agenda,
		"organizer":   in.Organizer,
		"tags":        in.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create event query: %w", err)
	}

	event, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		return nil, fmt.Errorf("failed to collect created event: %w", err)
	}

	return &event, nil
}

// ListEventsOnDate returns every event scheduled for date (YYYY-MM-DD).
func (r *EventRepository) ListEventsOnDate(ctx context.Context, date string) ([]model.Event, error) {
	stmt := `SELECT` + eventColumns + `
	FROM
		events
	WHERE
		date = @date::date
	ORDER BY
		time ASC`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{"date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to execute events on date query: %w", err)
	}

	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		return nil, fmt.Errorf("failed to collect events on date: %w", err)
	}

	return events, nil
}
