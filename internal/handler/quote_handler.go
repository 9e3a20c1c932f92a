package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stayops/reservation-core/internal/dto"
	"github.com/stayops/reservation-core/internal/service"
)

type QuoteHandler struct {
	rates service.RateService
}

func NewQuoteHandler(rates service.RateService) *QuoteHandler {
	return &QuoteHandler{rates: rates}
}

func (h *QuoteHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/quotes", h.ResolveRate)
}

func (h *QuoteHandler) ResolveRate(c echo.Context) error {
	var req dto.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := req.ToServiceRequest()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dates must use YYYY-MM-DD")
	}

	quote, err := h.rates.ResolveRate(c.Request().Context(), input)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}
