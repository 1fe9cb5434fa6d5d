package handler

import (
	"github.com/deppfellow/devevent/internal/model"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/deppfellow/devevent/internal/service"
	"github.com/deppfellow/devevent/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	Handler
	bookings *service.BookingService
}

func NewBookingHandler(s *server.Server, bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{
		Handler:  NewHandler(s),
		bookings: bookings,
	}
}

type CreateBookingRequest struct {
	EventID string `json:"eventId" validate:"required,uuid"`
	Slug    string `json:"slug" validate:"required,slug"`
	Email   string `json:"email" validate:"required,email,max=254"`
}

func (r *CreateBookingRequest) Validate() error {
	return validation.Validator().Struct(r)
}

type BookingResponse struct {
	Success bool           `json:"success"`
	Booking *model.Booking `json:"booking"`
}

// CreateBooking answers 201 {"success":true,"booking":...}. Failures go
// through the global error handler, whose envelope carries no success flag.
func (h *BookingHandler) CreateBooking(c echo.Context, req *CreateBookingRequest) (*BookingResponse, error) {
	booking, err := h.bookings.CreateBooking(c.Request().Context(), model.NewBooking{
		// validated above
		EventID: uuid.MustParse(req.EventID),
		Slug:    req.Slug,
		Email:   req.Email,
	})
	if err != nil {
		return nil, err
	}

	return &BookingResponse{
		Success: true,
		Booking: booking,
	}, nil
}

func (h *BookingHandler) CountBookings(c echo.Context, req *SlugRequest) (*service.BookingCount, error) {
	return h.bookings.CountBookings(c.Request().Context(), req.Slug)
}
