package email

import (
	"context"
	"fmt"
	"strings"
)

// EventURL is the public page of the event with slug.
func (c *Client) EventURL(slug string) string {
	return strings.TrimRight(c.appURL, "/") + "/events/" + slug
}

// SendBookingConfirmationEmail tells the attendee their seat is reserved.
func (c *Client) SendBookingConfirmationEmail(ctx context.Context, data BookingConfirmationData) error {
	if data.Event.URL == "" {
		data.Event.URL = c.EventURL(data.Event.Slug)
	}

	return c.SendEmail(
		ctx,
		data.Email,
		fmt.Sprintf("You're booked: %s", data.Event.Title),
		TemplateBookingConfirmation,
		data,
	)
}

// SendEventReminderEmail reminds an attendee the event is tomorrow.
func (c *Client) SendEventReminderEmail(ctx context.Context, data EventReminderData) error {
	if data.Event.URL == "" {
		data.Event.URL = c.EventURL(data.Event.Slug)
	}

	return c.SendEmail(
		ctx,
		data.Email,
		fmt.Sprintf("Reminder: %s is tomorrow", data.Event.Title),
		TemplateEventReminder,
		data,
	)
}
