package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/devevent/internal/lib/email"
	"github.com/hibiken/asynq"
)

// Mailer is the part of the email client the handlers need.
type Mailer interface {
	SendBookingConfirmationEmail(ctx context.Context, data email.BookingConfirmationData) error
	SendEventReminderEmail(ctx context.Context, data email.EventReminderData) error
}

func decodeBookingPayload(t *asynq.Task) (BookingEmailPayload, error) {
	var p BookingEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Malformed payloads never succeed; don't retry them.
		return p, fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return p, nil
}

func (p BookingEmailPayload) eventDetails() email.EventDetails {
	return email.EventDetails{
		Title:    p.EventTitle,
		Slug:     p.EventSlug,
		Date:     p.EventDate,
		Time:     p.EventTime,
		Venue:    p.EventVenue,
		Location: p.EventLocation,
		Mode:     p.EventMode,
	}
}

// handleBookingConfirmationTask sends the confirmation email. Returning an
// error makes asynq mark the task failed and schedule a retry.
func (j *JobService) handleBookingConfirmationTask(ctx context.Context, t *asynq.Task) error {
	p, err := decodeBookingPayload(t)
	if err != nil {
		return err
	}

	log := j.logger.With().
		Str("type", "booking_confirmation").
		Str("booking_id", p.BookingID.String()).
		Str("event_slug", p.EventSlug).
		Logger()

	log.Info().Msg("Processing booking confirmation email task")

	err = j.mailer.SendBookingConfirmationEmail(ctx, email.BookingConfirmationData{
		Email:     p.To,
		BookingID: p.BookingID.String(),
		Event:     p.eventDetails(),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send booking confirmation email")
		return err
	}

	log.Info().Msg("Successfully sent booking confirmation email")
	return nil
}

func (j *JobService) handleEventReminderTask(ctx context.Context, t *asynq.Task) error {
	p, err := decodeBookingPayload(t)
	if err != nil {
		return err
	}

	log := j.logger.With().
		Str("type", "event_reminder").
		Str("booking_id", p.BookingID.String()).
		Str("event_slug", p.EventSlug).
		Logger()

	log.Info().Msg("Processing event reminder email task")

	err = j.mailer.SendEventReminderEmail(ctx, email.EventReminderData{
		Email: p.To,
		Event: p.eventDetails(),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send event reminder email")
		return err
	}

	log.Info().Msg("Successfully sent event reminder email")
	return nil
}
