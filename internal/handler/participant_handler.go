package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stayops/reservation-core/internal/dto"
	"github.com/stayops/reservation-core/internal/service"
)

type ParticipantHandler struct {
	participants service.ParticipantService
}

func NewParticipantHandler(participants service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

func (h *ParticipantHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/bookings/:id/participants", h.AddParticipant)
	e.GET("/api/v1/bookings/:id/participants", h.ListParticipants)
	e.DELETE("/api/v1/participants/:id", h.RemoveParticipant)
	e.POST("/api/v1/participants/:id/promote", h.PromoteParticipant)
}

func (h *ParticipantHandler) AddParticipant(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddParticipantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	participant, err := h.participants.Add(c.Request().Context(), bookingID, service.AddParticipantInput{
		FullName: req.FullName,
		Email:    dto.Optional(req.Email),
		Phone:    dto.Optional(req.Phone),
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToParticipantResponse(participant))
}

func (h *ParticipantHandler) RemoveParticipant(c echo.Context) error {
	participantID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.participants.Remove(c.Request().Context(), participantID); err != nil {
		return mapServiceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ParticipantHandler) PromoteParticipant(c echo.Context) error {
	participantID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	participant, err := h.participants.Promote(c.Request().Context(), participantID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToParticipantResponse(participant))
}

func (h *ParticipantHandler) ListParticipants(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	participants, err := h.participants.ListByBooking(c.Request().Context(), bookingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.ParticipantResponse, len(participants))
	for i := range participants {
		resp[i] = dto.ToParticipantResponse(&participants[i])
	}

	return c.JSON(http.StatusOK, resp)
}
