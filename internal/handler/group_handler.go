package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stayops/reservation-core/internal/dto"
	"github.com/stayops/reservation-core/internal/service"
)

type GroupHandler struct {
	groups service.GroupService
}

func NewGroupHandler(groups service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

func (h *GroupHandler) RegisterRoutes(e *echo.Echo) {
	groups := e.Group("/api/v1/booking-groups")
	groups.POST("", h.CreateGroup)
	groups.GET("/:id", h.GetGroup)
	groups.POST("/:id/bookings/:bookingID", h.AttachBooking)
}

func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req dto.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group, err := h.groups.CreateGroup(c.Request().Context(), req.Name, req.ResponsibleParty)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

func (h *GroupHandler) GetGroup(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	group, err := h.groups.GetGroup(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

func (h *GroupHandler) AttachBooking(c echo.Context) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	bookingID, err := parseID(c, "bookingID")
	if err != nil {
		return err
	}

	if err := h.groups.AttachBooking(c.Request().Context(), groupID, bookingID); err != nil {
		return mapServiceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
