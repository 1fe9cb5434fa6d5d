package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateBookingConfirmation corresponds to templates/booking_confirmation.html
	TemplateBookingConfirmation Template = "booking_confirmation"
	// TemplateEventReminder corresponds to templates/event_reminder.html
	TemplateEventReminder Template = "event_reminder"
)

func (t Template) file() string {
	return string(t) + ".html"
}

// EventDetails is the event block shared by every booking-related email.
type EventDetails struct {
	Title    string
	Slug     string
	Date     string
	Time     string
	Venue    string
	Location string
	Mode     string
	// URL defaults to the event page under the configured app URL.
	URL string
}

// BookingConfirmationData feeds the booking_confirmation template.
type BookingConfirmationData struct {
	Email     string
	BookingID string
	Event     EventDetails
}

// EventReminderData feeds the event_reminder template.
type EventReminderData struct {
	Email string
	Event EventDetails
}
