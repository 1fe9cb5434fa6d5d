package email

import "fmt"

var previewEvent = EventDetails{
	Title:    "React Summit 2025",
	Slug:     "react-summit-2025",
	Date:     "2025-11-07",
	Time:     "09:30",
	Venue:    "Kromhouthal",
	Location: "Amsterdam, NL",
	Mode:     "hybrid",
	URL:      "http://localhost:3000/events/react-summit-2025",
}

// PreviewData contains sample template data for local preview.
var PreviewData = map[Template]any{
	TemplateBookingConfirmation: BookingConfirmationData{
		Email:     "ada@example.com",
		BookingID: "6f1c1c5e-3f43-4b8e-9d55-7a8f0a1b2c3d",
		Event:     previewEvent,
	},
	TemplateEventReminder: EventReminderData{
		Email: "ada@example.com",
		Event: previewEvent,
	},
}

// Preview renders a template with its sample data.
func Preview(name Template) (string, error) {
	data, ok := PreviewData[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	return Render(name, data)
}
