package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stayops/reservation-core/internal/dto"
	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/service"
)

type BookingHandler struct {
	bookings  service.BookingService
	lifecycle service.LifecycleService
}

func NewBookingHandler(bookings service.BookingService, lifecycle service.LifecycleService) *BookingHandler {
	return &BookingHandler{bookings: bookings, lifecycle: lifecycle}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/v1/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.POST("/:id/transition", h.Transition)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	quote, err := req.ToServiceRequest()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dates must use YYYY-MM-DD")
	}

	booking, err := h.bookings.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		Quote:      quote,
		GuestName:  req.GuestName,
		GuestEmail: dto.Optional(req.GuestEmail),
		GuestPhone: dto.Optional(req.GuestPhone),
		Notes:      dto.Optional(req.Notes),
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookings.GetBooking(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	propertyID, err := strconv.ParseUint(c.QueryParam("property_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "property_id is required")
	}

	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		normalized, err := service.NormalizeLegacyStatus(s)
		if err != nil {
			return mapServiceError(err)
		}
		status = &normalized
	}

	bookings, err := h.bookings.ListBookings(c.Request().Context(), uint(propertyID), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) Transition(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.TransitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.lifecycle.Transition(c.Request().Context(), id, req.TargetStatus)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
