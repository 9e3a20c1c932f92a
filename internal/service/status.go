package service

import (
	"sort"
	"strings"

	"github.com/stayops/reservation-core/internal/models"
)

// legacyStatuses maps status strings from older property-management data to
// the canonical set. Canonical values map to themselves so normalization is
// idempotent.
var legacyStatuses = map[string]models.BookingStatus{
	"pending":     models.StatusPending,
	"new":         models.StatusPending,
	"hold":        models.StatusPending,
	"confirmed":   models.StatusConfirmed,
	"reserved":    models.StatusConfirmed,
	"booked":      models.StatusConfirmed,
	"checked_in":  models.StatusCheckedIn,
	"checkedin":   models.StatusCheckedIn,
	"checked-in":  models.StatusCheckedIn,
	"inhouse":     models.StatusCheckedIn,
	"in_house":    models.StatusCheckedIn,
	"checked_out": models.StatusCheckedOut,
	"checkedout":  models.StatusCheckedOut,
	"checked-out": models.StatusCheckedOut,
	"departed":    models.StatusCheckedOut,
	"completed":   models.StatusCompleted,
	"complete":    models.StatusCompleted,
	"closed":      models.StatusCompleted,
	"cancelled":   models.StatusCancelled,
	"canceled":    models.StatusCancelled,
	"no_show":     models.StatusNoShow,
	"noshow":      models.StatusNoShow,
	"no-show":     models.StatusNoShow,
}

// NormalizeLegacyStatus maps any stored or requested status string to the
// canonical enum. Pure; runs before any transition guard. The empty string
// maps to pending (older rows were created without a status).
func NormalizeLegacyStatus(raw string) (models.BookingStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return models.StatusPending, nil
	}
	if status, ok := legacyStatuses[s]; ok {
		return status, nil
	}
	return "", ErrUnknownStatus
}

// activeStatusForms lists every stored spelling, canonical or legacy, that
// normalizes to an active status. Queries filtering on active bookings must
// match rows that still carry legacy strings. The empty string is included:
// older rows created without a status normalize to pending.
func activeStatusForms() []models.BookingStatus {
	forms := []models.BookingStatus{""}
	for raw, canonical := range legacyStatuses {
		if canonical.IsActive() {
			forms = append(forms, models.BookingStatus(raw))
		}
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i] < forms[j] })
	return forms
}

var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending: {
		models.StatusConfirmed,
		models.StatusCheckedIn,
		models.StatusCancelled,
		models.StatusNoShow,
	},
	models.StatusConfirmed: {
		models.StatusCheckedIn,
		models.StatusCancelled,
		models.StatusNoShow,
	},
	models.StatusCheckedIn: {
		models.StatusCheckedOut,
	},
	models.StatusCheckedOut: {
		models.StatusCompleted,
	},
}

// transitionAllowed checks the state machine edge only; precondition guards
// (room, primary guest, folio) are evaluated separately.
func transitionAllowed(from, to models.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
