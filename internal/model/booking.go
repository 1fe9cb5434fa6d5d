package model

import "github.com/google/uuid"

// Booking reserves a seat at an event for one email address.
type Booking struct {
	Base
	EventID uuid.UUID `json:"eventId" db:"event_id"`
	Slug    string    `json:"slug" db:"slug"`
	Email   string    `json:"email" db:"email"`
}

// NewBooking is the normalized input for inserting a booking.
type NewBooking struct {
	EventID uuid.UUID
	Slug    string
	Email   string
}
