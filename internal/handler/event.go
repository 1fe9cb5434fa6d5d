package handler

import (
	"time"

	"github.com/deppfellow/devevent/internal/lib/calendar"
	"github.com/deppfellow/devevent/internal/middleware"
	"github.com/deppfellow/devevent/internal/model"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/deppfellow/devevent/internal/service"
	"github.com/deppfellow/devevent/internal/validation"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	Handler
	events *service.EventService
	now    func() time.Time
}

func NewEventHandler(s *server.Server, events *service.EventService) *EventHandler {
	return &EventHandler{
		Handler: NewHandler(s),
		events:  events,
		now:     time.Now,
	}
}

// ---------------- Requests ---------------------------------------------------

// SlugRequest carries the :slug path parameter. The slug is sanitized and
// checked by the service so malformed values get their dedicated messages.
type SlugRequest struct {
	Slug string `param:"slug" json:"-"`
}

func (r *SlugRequest) Validate() error {
	return nil
}

type ListEventsRequest struct {
	Page  int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit int    `query:"limit" json:"limit" validate:"omitempty,min=1"`
	Tag   string `query:"tag" json:"tag" validate:"omitempty,max=50"`
	Mode  string `query:"mode" json:"mode" validate:"omitempty,oneof=online offline hybrid"`
}

func (r *ListEventsRequest) Validate() error {
	return validation.Validator().Struct(r)
}

type CreateEventRequest struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=1000"`
	Overview    string   `json:"overview" validate:"required,max=500"`
	Image       string   `json:"image" validate:"required,url"`
	Venue       string   `json:"venue" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	Time        string   `json:"time" validate:"required"`
	Mode        string   `json:"mode" validate:"required,oneof=online offline hybrid"`
	Audience    string   `json:"audience" validate:"required"`
	Agenda      []string `json:"agenda" validate:"required,min=1"`
	Organizer   string   `json:"organizer" validate:"required"`
	Tags        []string `json:"tags" validate:"required,min=1"`
}

func (r *CreateEventRequest) Validate() error {
	return validation.Validator().Struct(r)
}

// ---------------- Responses --------------------------------------------------

type EventResponse struct {
	Message string       `json:"message"`
	Event   *model.Event `json:"event"`
}

type SimilarEventsResponse struct {
	Events []model.Event `json:"events"`
}

// ---------------- Endpoints --------------------------------------------------

func (h *EventHandler) GetEventBySlug(c echo.Context, req *SlugRequest) (*EventResponse, error) {
	event, err := h.events.GetEventBySlug(c.Request().Context(), req.Slug)
	if err != nil {
		return nil, err
	}

	return &EventResponse{
		Message: "Event fetched successfully",
		Event:   event,
	}, nil
}

func (h *EventHandler) ListEvents(c echo.Context, req *ListEventsRequest) (*model.PaginatedResponse[model.Event], error) {
	return h.events.ListEvents(c.Request().Context(), model.EventFilter{
		Tag:   req.Tag,
		Mode:  model.EventMode(req.Mode),
		Page:  req.Page,
		Limit: req.Limit,
	})
}

func (h *EventHandler) GetSimilarEvents(c echo.Context, req *SlugRequest) (*SimilarEventsResponse, error) {
	events, err := h.events.GetSimilarEvents(c.Request().Context(), req.Slug)
	if err != nil {
		return nil, err
	}

	return &SimilarEventsResponse{Events: events}, nil
}

func (h *EventHandler) CreateEvent(c echo.Context, req *CreateEventRequest) (*EventResponse, error) {
	event, err := h.events.CreateEvent(c.Request().Context(), model.NewEvent{
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        model.EventMode(req.Mode),
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
	})
	if err != nil {
		return nil, err
	}

	middleware.GetLogger(c).Info().
		Str("user_id", middleware.GetUserID(c)).
		Str("slug", event.Slug).
		Msg("event published")

	return &EventResponse{
		Message: "Event created successfully",
		Event:   event,
	}, nil
}

// GetEventCalendar offers the event as an .ics download.
func (h *EventHandler) GetEventCalendar(c echo.Context, req *SlugRequest) (File, error) {
	event, err := h.events.GetEventBySlug(c.Request().Context(), req.Slug)
	if err != nil {
		return File{}, err
	}

	var eventURL string
	if h.server.Email != nil {
		eventURL = h.server.Email.EventURL(event.Slug)
	}

	data, err := calendar.EventICS(event, eventURL, h.now())
	if err != nil {
		return File{}, err
	}

	return File{
		Name:        calendar.FileName(event),
		ContentType: calendar.ContentType,
		Data:        data,
	}, nil
}
