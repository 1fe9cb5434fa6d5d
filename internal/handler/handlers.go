package handler

import (
	"github.com/deppfellow/devevent/internal/server"
	"github.com/deppfellow/devevent/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Email    *EmailPreviewHandler
	Events   *EventHandler
	Bookings *BookingHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Email:    NewEmailPreviewHandler(s),
		Events:   NewEventHandler(s, services.Events),
		Bookings: NewBookingHandler(s, services.Bookings),
	}
}
