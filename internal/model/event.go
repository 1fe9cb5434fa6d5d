package model

import "math"

// EventMode is where an event takes place.
type EventMode string

const (
	EventModeOnline  EventMode = "online"
	EventModeOffline EventMode = "offline"
	EventModeHybrid  EventMode = "hybrid"
)

// Event is a bookable developer event.
//
// Date is an ISO calendar date (YYYY-MM-DD) and Time a 24h clock (HH:MM);
// both are normalized before they are stored.
type Event struct {
	Base
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Overview    string    `json:"overview" db:"overview"`
	Image       string    `json:"image" db:"image"`
	Venue       string    `json:"venue" db:"venue"`
	Location    string    `json:"location" db:"location"`
	Date        string    `json:"date" db:"date"`
	Time        string    `json:"time" db:"time"`
	Mode        EventMode `json:"mode" db:"mode"`
	Audience    string    `json:"audience" db:"audience"`
	Agenda      []string  `json:"agenda" db:"agenda"`
	Organizer   string    `json:"organizer" db:"organizer"`
	Tags        []string  `json:"tags" db:"tags"`
}

// NewEvent is the normalized input for inserting an event.
type NewEvent struct {
	Title       string
	Slug        string
	Description string
	Overview    string
	Image       string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        EventMode
	Audience    string
	Agenda      []string
	Organizer   string
	Tags        []string
}

// EventFilter narrows an event listing.
type EventFilter struct {
	Tag   string
	Mode  EventMode
	Page  int
	Limit int
}

// Offset is the number of rows skipped for the filter's page. Pages past
// the addressable range saturate at math.MaxInt, which still yields an
// empty page instead of a negative OFFSET.
func (f EventFilter) Offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}
