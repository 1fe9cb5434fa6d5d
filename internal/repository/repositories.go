package repository

import (
	"github.com/deppfellow/devevent/internal/server"
)

// Repositories is a container for all repository instances.
//
// Every repository shares the single pool on s.DB; nothing opens its own
// connection.
type Repositories struct {
	Events     *EventRepository
	Bookings   *BookingRepository
	EventCache *EventCache
}

// NewRepositories constructs the repository container from the shared
// database pool and redis client.
func NewRepositories(s *server.Server) *Repositories {
	ttl := s.Config.Cache.EventTTL

	return &Repositories{
		Events:     NewEventRepository(s.DB.Pool),
		Bookings:   NewBookingRepository(s.DB.Pool),
		EventCache: NewEventCache(s.Redis, ttl),
	}
}
