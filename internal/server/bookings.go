package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
)

// BookingHandler serves bookings in the backend exchange format.
type BookingHandler struct {
	Store Store
	Log   zerolog.Logger
}

// List returns the bookings of ?date=YYYY-MM-DD (today when omitted).
func (h *BookingHandler) List(c echo.Context) error {
	day, err := dateutil.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	list, err := h.Store.ListBookings(c.Request().Context(), day)
	if err != nil {
		h.Log.Error().Err(err).Msg("listing bookings")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]booking.BackendBooking, 0, len(list))
	for _, b := range list {
		bb, err := booking.FromBooking(b)
		if err != nil {
			continue
		}
		out = append(out, bb)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one booking by numeric id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	b, err := h.Store.GetBooking(c.Request().Context(), id)
	if err != nil {
		return h.storeError(c, err)
	}

	bb, err := booking.FromBooking(*b)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "corrupt booking"})
	}
	return c.JSON(http.StatusOK, bb)
}

// Create inserts a booking. The body's id is ignored.
func (h *BookingHandler) Create(c echo.Context) error {
	var req booking.BackendBooking
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ID = 1 // placeholder so conversion validates; the store assigns the real id
	if req.Status == "" {
		req.Status = string(booking.StatusProvisional)
	}

	b, err := req.ToBooking()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Store.CreateBooking(c.Request().Context(), &b); err != nil {
		return h.storeError(c, err)
	}

	bb, _ := booking.FromBooking(b)
	return c.JSON(http.StatusCreated, bb)
}

// Update applies an UpdateRequest.
func (h *BookingHandler) Update(c echo.Context) error {
	var req booking.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	p, err := req.Patch()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Store.UpdateBooking(c.Request().Context(), booking.FormatID(req.ID), p); err != nil {
		return h.storeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Delete removes a booking.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Store.DeleteBooking(c.Request().Context(), id); err != nil {
		return h.storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (string, bool) {
	n, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || n <= 0 {
		return "", false
	}
	return booking.FormatID(n), true
}

func (h *BookingHandler) storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrInvalidID),
		errors.Is(err, booking.ErrEndBeforeStart),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrInvalidCourse):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		h.Log.Error().Err(err).Msg("store error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
