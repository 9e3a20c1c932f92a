package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stayops/reservation-core/internal/dto"
	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/service"
)

type FolioHandler struct {
	folios service.FolioService
}

func NewFolioHandler(folios service.FolioService) *FolioHandler {
	return &FolioHandler{folios: folios}
}

func (h *FolioHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/v1/bookings")
	bookings.POST("/:id/charges", h.AddCharge)
	bookings.POST("/:id/payments", h.AddPayment)
	bookings.GET("/:id/folio", h.GetFolio)
	bookings.POST("/:id/folio/close", h.CloseFolio)
}

func (h *FolioHandler) AddCharge(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddChargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.folios.AddCharge(c.Request().Context(), bookingID,
		req.Description, req.Amount, models.ChargeCategory(req.Category),
		dto.Optional(req.IdempotencyKey))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *FolioHandler) AddPayment(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payment, err := h.folios.AddPayment(c.Request().Context(), bookingID,
		req.Amount, req.Method, dto.Optional(req.IdempotencyKey))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, payment)
}

func (h *FolioHandler) GetFolio(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.folios.GetFolio(c.Request().Context(), bookingID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFolioResponse(view))
}

func (h *FolioHandler) CloseFolio(c echo.Context) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	folio, err := h.folios.Close(c.Request().Context(), bookingID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, folio)
}
