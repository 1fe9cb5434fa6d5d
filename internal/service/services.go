package service

import (
	"fmt"

	"github.com/deppfellow/devevent/internal/lib/images"
	"github.com/deppfellow/devevent/internal/repository"
	"github.com/deppfellow/devevent/internal/server"
)

type Services struct {
	Auth      *AuthService
	Events    *EventService
	Bookings  *BookingService
	Reminders *ReminderService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	imagePolicy, err := images.NewPolicy(s.Config.Images.RemotePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid image remote patterns: %w", err)
	}

	authService := NewAuthService(s.Config.Auth)
	eventService := NewEventService(repos.Events, repos.EventCache, imagePolicy)
	bookingService := NewBookingService(eventService, repos.Bookings, s.Job)

	reminderService, err := NewReminderService(
		s.Logger,
		s.Config.Jobs.ReminderSchedule,
		repos.Events,
		repos.Bookings,
		s.Job,
	)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:      authService,
		Events:    eventService,
		Bookings:  bookingService,
		Reminders: reminderService,
	}, nil
}
