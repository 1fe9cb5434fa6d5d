package job

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// TaskBookingConfirmation is the job type name stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskBookingConfirmation = "email:booking_confirmation"
	TaskEventReminder       = "email:event_reminder"
)

// BookingEmailPayload is the JSON payload shared by the booking emails.
// It carries the event fields the templates render, so the worker never
// needs to read the database.
type BookingEmailPayload struct {
	BookingID     uuid.UUID `json:"booking_id"`
	To            string    `json:"to"`
	EventTitle    string    `json:"event_title"`
	EventSlug     string    `json:"event_slug"`
	EventDate     string    `json:"event_date"`
	EventTime     string    `json:"event_time"`
	EventVenue    string    `json:"event_venue"`
	EventLocation string    `json:"event_location"`
	EventMode     string    `json:"event_mode"`
}

// NewBookingConfirmationTask constructs the confirmation email task:
// retried up to 3 times on the default queue, killed after 30 seconds.
func NewBookingConfirmationTask(p BookingEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBookingConfirmation,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// ReminderTaskID dedupes reminders: asynq rejects a second task with the
// same ID while the first is still pending or retained.
func ReminderTaskID(bookingID uuid.UUID) string {
	return "reminder:" + bookingID.String()
}

// NewEventReminderTask constructs the day-before reminder on the low queue.
func NewEventReminderTask(p BookingEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskEventReminder,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueLow),
		asynq.Timeout(30*time.Second),
		asynq.TaskID(ReminderTaskID(p.BookingID)),
		asynq.Retention(48*time.Hour),
	), nil
}
