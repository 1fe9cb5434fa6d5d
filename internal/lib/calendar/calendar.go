// Package calendar renders events as iCalendar (RFC 5545) files so
// attendees can add them to their own calendars.
package calendar

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deppfellow/devevent/internal/model"
)

const (
	ProductID   = "-//DevEvent//Events//EN"
	ContentType = "text/calendar; charset=utf-8"

	// DefaultDuration is used for DTEND since events carry only a start time.
	DefaultDuration = 2 * time.Hour

	stampLayout = "20060102T150405Z"

	// maxLineOctets is the content line limit before folding.
	maxLineOctets = 75
)

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func escape(s string) string {
	return textEscaper.Replace(s)
}

// fold splits a content line into 75-octet chunks, each continuation
// starting with a space, without cutting a UTF-8 sequence.
func fold(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}

	var b strings.Builder
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// the leading space counts against the next line
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	return b.String()
}

// FileName is the download name for the event's calendar file.
func FileName(event *model.Event) string {
	return event.Slug + ".ics"
}

// EventICS renders a single-event calendar with a reminder one day ahead.
// Date and time are read as UTC; now stamps DTSTAMP.
func EventICS(event *model.Event, eventURL string, now time.Time) ([]byte, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.Time, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("event %s has an invalid start: %w", event.Slug, err)
	}

	var b bytes.Buffer
	line := func(format string, args ...any) {
		b.WriteString(fold(fmt.Sprintf(format, args...)))
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ProductID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("BEGIN:VEVENT")
	line("UID:%s@devevent", event.ID)
	line("DTSTAMP:%s", now.UTC().Format(stampLayout))
	line("DTSTART:%s", start.Format(stampLayout))
	line("DTEND:%s", start.Add(DefaultDuration).Format(stampLayout))
	line("SUMMARY:%s", escape(event.Title))
	line("DESCRIPTION:%s", escape(event.Overview))
	line("LOCATION:%s", escape(event.Venue+", "+event.Location))
	if eventURL != "" {
		line("URL:%s", eventURL)
	}
	if len(event.Tags) > 0 {
		escaped := make([]string, len(event.Tags))
		for i, tag := range event.Tags {
			escaped[i] = escape(tag)
		}
		line("CATEGORIES:%s", strings.Join(escaped, ","))
	}
	line("BEGIN:VALARM")
	line("ACTION:DISPLAY")
	line("DESCRIPTION:Reminder: %s", escape(event.Title))
	line("TRIGGER:-P1D")
	line("END:VALARM")
	line("END:VEVENT")
	line("END:VCALENDAR")

	return b.Bytes(), nil
}
