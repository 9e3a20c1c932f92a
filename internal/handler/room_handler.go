package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stayops/reservation-core/internal/dto"
	"github.com/stayops/reservation-core/internal/service"
)

type RoomHandler struct {
	assignments service.AssignmentService
}

func NewRoomHandler(assignments service.AssignmentService) *RoomHandler {
	return &RoomHandler{assignments: assignments}
}

func (h *RoomHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/bookings/:id/rooms", h.AssignRoom)
	e.GET("/api/v1/bookings/:id/rooms", h.ListAssignments)
	e.GET("/api/v1/bookings/:id/rooms/primary", h.PrimaryRoom)
	e.DELETE("/api/v1/room-assignments/:id", h.UnassignRoom)
	e.POST("/api/v1/room-assignments/:id/promote", h.PromoteAssignment)
}

func (h *RoomHandler) AssignRoom(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AssignRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	assignment, err := h.assignments.Assign(c.Request().Context(), bookingID, req.RoomID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToAssignmentResponse(assignment))
}

func (h *RoomHandler) UnassignRoom(c echo.Context) error {
	assignmentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.assignments.Unassign(c.Request().Context(), assignmentID); err != nil {
		return mapServiceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) PromoteAssignment(c echo.Context) error {
	assignmentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	assignment, err := h.assignments.Promote(c.Request().Context(), assignmentID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToAssignmentResponse(assignment))
}

func (h *RoomHandler) PrimaryRoom(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	assignment, err := h.assignments.PrimaryRoom(c.Request().Context(), bookingID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToAssignmentResponse(assignment))
}

func (h *RoomHandler) ListAssignments(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	assignments, err := h.assignments.ListByBooking(c.Request().Context(), bookingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.AssignmentResponse, len(assignments))
	for i := range assignments {
		resp[i] = dto.ToAssignmentResponse(&assignments[i])
	}

	return c.JSON(http.StatusOK, resp)
}
