package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stayops/reservation-core/internal/dto"
	"github.com/stayops/reservation-core/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRateService struct {
	resolveFn func(ctx context.Context, req service.QuoteRequest) (*service.Quote, error)
}

func (m *mockRateService) ResolveRate(ctx context.Context, req service.QuoteRequest) (*service.Quote, error) {
	return m.resolveFn(ctx, req)
}

func TestResolveRate_Handler_Success(t *testing.T) {
	ruleID := uint(1)
	svc := &mockRateService{
		resolveFn: func(ctx context.Context, req service.QuoteRequest) (*service.Quote, error) {
			assert.Equal(t, uint(1), req.PropertyID)
			assert.Equal(t, time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), req.CheckIn)
			return &service.Quote{
				Nights: []service.NightlyRate{
					{Night: req.CheckIn, Price: 150.00, RuleID: &ruleID},
					{Night: req.CheckIn.AddDate(0, 0, 1), Price: 150.00, RuleID: &ruleID},
				},
				NightsSubtotal: 300.00,
				Total:          300.00,
			}, nil
		},
	}

	e := newEcho()
	body := `{
		"property_id": 1, "room_type_id": 10,
		"check_in": "2024-12-24", "check_out": "2024-12-26",
		"guests": 2
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewQuoteHandler(svc)
	err := h.ResolveRate(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Nights, 2)
	assert.Equal(t, 150.00, resp.Nights[0].Price)
	assert.Equal(t, 300.00, resp.Total)
}

func TestResolveRate_Handler_BadDate(t *testing.T) {
	e := newEcho()
	body := `{
		"property_id": 1, "room_type_id": 10,
		"check_in": "24/12/2024", "check_out": "2024-12-26",
		"guests": 2
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewQuoteHandler(&mockRateService{})
	err := h.ResolveRate(c)

	require.Error(t, err)
	he := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestResolveRate_Handler_NotFound(t *testing.T) {
	svc := &mockRateService{
		resolveFn: func(ctx context.Context, req service.QuoteRequest) (*service.Quote, error) {
			return nil, service.ErrRoomTypeNotFound
		},
	}

	e := newEcho()
	body := `{
		"property_id": 1, "room_type_id": 99,
		"check_in": "2024-12-24", "check_out": "2024-12-26",
		"guests": 2
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewQuoteHandler(svc)
	err := h.ResolveRate(c)

	require.Error(t, err)
	he := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusNotFound, he.Code)

	resp, ok := he.Message.(dto.ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, "not_found", resp.Code)
}
