package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/devevent/internal/lib/job"
	"github.com/deppfellow/devevent/internal/lib/utils"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ReminderService runs the daily sweep that queues a reminder email for
// every booking of an event taking place the next day (UTC).
type ReminderService struct {
	events   eventStore
	bookings bookingStore
	jobs     taskEnqueuer
	cron     *cron.Cron
	schedule string
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewReminderService(logger *zerolog.Logger, schedule string, events eventStore, bookings bookingStore, jobs taskEnqueuer) (*ReminderService, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	cronLogger := cronLogger{logger: logger.With().Str("component", "cron").Logger()}

	return &ReminderService{
		events:   events,
		bookings: bookings,
		jobs:     jobs,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the sweep and starts the scheduler in its own goroutine.
func (r *ReminderService) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		if _, err := r.SweepReminders(context.Background()); err != nil {
			r.logger.Error().Err(err).Msg("reminder sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	r.logger.Info().Str("schedule", r.schedule).Msg("starting reminder scheduler")
	r.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish or ctx
// to expire.
func (r *ReminderService) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		r.logger.Warn().Msg("reminder sweep still running at shutdown")
	}
}

// SweepReminders queues reminders for tomorrow's events and returns how many
// were queued. Reminders already queued by an earlier sweep are skipped.
func (r *ReminderService) SweepReminders(ctx context.Context) (int, error) {
	tomorrow := r.now().UTC().AddDate(0, 0, 1).Format(utils.DateLayout)

	events, err := r.events.ListEventsOnDate(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("list events on %s: %w", tomorrow, err)
	}

	queued := 0
	for i := range events {
		event := &events[i]

		bookings, err := r.bookings.ListBookingsByEvent(ctx, event.ID)
		if err != nil {
			r.logger.Error().Err(err).Str("event_slug", event.Slug).Msg("failed to list bookings for reminders")
			continue
		}

		for j := range bookings {
			task, err := job.NewEventReminderTask(bookingEmailPayload(event, &bookings[j]))
			if err != nil {
				return queued, err
			}

			_, err = r.jobs.Enqueue(ctx, task)
			switch {
			case errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask):
				continue
			case err != nil:
				r.logger.Error().Err(err).
					Str("booking_id", bookings[j].ID.String()).
					Msg("failed to enqueue event reminder")
				continue
			}
			queued++
		}
	}

	r.logger.Info().
		Str("date", tomorrow).
		Int("events", len(events)).
		Int("queued", queued).
		Msg("reminder sweep finished")

	return queued, nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
