package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stayops/reservation-core/internal/dto"
	"github.com/stayops/reservation-core/internal/service"
)

// mapServiceError translates the service error taxonomy into HTTP responses
// with machine-readable codes, so the caller can drive specific remediation
// UI instead of a generic failure banner.
func mapServiceError(err error) error {
	var guard *service.GuardError
	if errors.As(err, &guard) {
		return echo.NewHTTPError(http.StatusConflict, dto.ErrorResponse{
			Code:    string(guard.Reason),
			Message: guard.Error(),
		})
	}

	var stay *service.StayLengthError
	if errors.As(err, &stay) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Code:    "stay_length_rejected",
			Message: stay.Error(),
		})
	}

	switch {
	case errors.Is(err, service.ErrPropertyNotFound),
		errors.Is(err, service.ErrRoomTypeNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrFolioNotFound),
		errors.Is(err, service.ErrNoPrimaryRoom):
		return httpError(http.StatusNotFound, "not_found", err)

	case errors.Is(err, service.ErrInvalidRange):
		return httpError(http.StatusBadRequest, "invalid_range", err)
	case errors.Is(err, service.ErrInvalidAmount):
		return httpError(http.StatusBadRequest, "invalid_amount", err)
	case errors.Is(err, service.ErrUnknownStatus):
		return httpError(http.StatusBadRequest, "unknown_status", err)

	case errors.Is(err, service.ErrBalancePending):
		return httpError(http.StatusConflict, "balance_pending", err)
	case errors.Is(err, service.ErrFolioClosedLedger):
		return httpError(http.StatusConflict, "folio_closed", err)
	case errors.Is(err, service.ErrRoomConflict):
		return httpError(http.StatusConflict, "room_conflict", err)
	case errors.Is(err, service.ErrDuplicatePosting):
		return httpError(http.StatusConflict, "duplicate_posting", err)
	case errors.Is(err, service.ErrPrimaryParticipant):
		return httpError(http.StatusConflict, "primary_participant", err)
	case errors.Is(err, service.ErrAlreadyGrouped):
		return httpError(http.StatusConflict, "already_grouped", err)

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func httpError(status int, code string, err error) error {
	return echo.NewHTTPError(status, dto.ErrorResponse{Code: code, Message: err.Error()})
}
