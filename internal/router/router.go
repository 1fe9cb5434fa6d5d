// Package router builds the echo instance: global middleware in order,
// then system, analytics and API routes.
package router

import (
	"net/http"

	"github.com/deppfellow/devevent/internal/handler"
	"github.com/deppfellow/devevent/internal/middleware"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) (*echo.Echo, error) {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// The transaction opens first so it covers everything below it. Every
	// later middleware reads the request id.
	router.Use(
		middlewares.Tracing.NewRelicMiddleware(),
		middleware.RequestID(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, s, h)

	if err := registerAnalyticsRoutes(router, s); err != nil {
		return nil, err
	}

	api := router.Group("/api")
	registerEventRoutes(api, h, middlewares)
	registerBookingRoutes(api, h, middlewares)

	return router, nil
}

func registerEventRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	events := h.Events

	api.GET("/events", handler.Handle(events.Handler, events.ListEvents, http.StatusOK, &handler.ListEventsRequest{}))
	api.POST("/events", handler.Handle(events.Handler, events.CreateEvent, http.StatusCreated, &handler.CreateEventRequest{}), m.Auth.RequireAuth)

	api.GET("/events/:slug", handler.Handle(events.Handler, events.GetEventBySlug, http.StatusOK, &handler.SlugRequest{}))
	api.GET("/events/:slug/similar", handler.Handle(events.Handler, events.GetSimilarEvents, http.StatusOK, &handler.SlugRequest{}))
	api.GET("/events/:slug/calendar", handler.HandleFile(events.Handler, events.GetEventCalendar, http.StatusOK, &handler.SlugRequest{}))
}

func registerBookingRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	bookings := h.Bookings

	api.GET("/events/:slug/bookings", handler.Handle(bookings.Handler, bookings.CountBookings, http.StatusOK, &handler.SlugRequest{}))
	api.POST("/bookings", handler.Handle(bookings.Handler, bookings.CreateBooking, http.StatusCreated, &handler.CreateBookingRequest{}), m.RateLimit.Bookings())
}
