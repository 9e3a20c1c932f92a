package service

import (
	"errors"
	"fmt"

	"github.com/stayops/reservation-core/internal/models"
)

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrRoomTypeNotFound    = errors.New("room type not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAssignmentNotFound  = errors.New("room assignment not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrServiceNotFound     = errors.New("add-on service not found")
	ErrGroupNotFound       = errors.New("booking group not found")
	ErrFolioNotFound       = errors.New("folio not found")

	ErrInvalidRange       = errors.New("invalid date range")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrBalancePending     = errors.New("folio has an outstanding balance")
	ErrFolioClosedLedger  = errors.New("folio is closed")
	ErrRoomConflict       = errors.New("room is already assigned to an overlapping booking")
	ErrDuplicatePosting   = errors.New("idempotency key already used")
	ErrPrimaryParticipant = errors.New("promote another participant before removing the primary")
	ErrNoPrimaryRoom      = errors.New("booking has no primary room assignment")
	ErrUnknownStatus      = errors.New("unknown booking status")
	ErrAlreadyGrouped     = errors.New("booking already belongs to a group")

	// ErrStayLengthRejected is the match target for StayLengthError.
	ErrStayLengthRejected = errors.New("stay length not permitted")
)

// StayLengthError reports which contributing pricing rule rejected the stay
// and what bounds it enforces, so the caller can explain the rejection.
type StayLengthError struct {
	RuleID  uint
	Nights  int
	MinStay *int
	MaxStay *int
}

func (e *StayLengthError) Error() string {
	switch {
	case e.MinStay != nil && e.Nights < *e.MinStay:
		return fmt.Sprintf("stay length not permitted: rule %d requires at least %d nights, got %d", e.RuleID, *e.MinStay, e.Nights)
	case e.MaxStay != nil && e.Nights > *e.MaxStay:
		return fmt.Sprintf("stay length not permitted: rule %d allows at most %d nights, got %d", e.RuleID, *e.MaxStay, e.Nights)
	}
	return "stay length not permitted"
}

func (e *StayLengthError) Unwrap() error { return ErrStayLengthRejected }

type GuardReason string

const (
	ReasonWrongState          GuardReason = "wrong_state"
	ReasonMissingRoom         GuardReason = "missing_room"
	ReasonMissingPrimaryGuest GuardReason = "missing_primary_guest"
	ReasonFolioOpen           GuardReason = "folio_open"
)

// GuardError is returned when a lifecycle transition is refused. Reason is
// machine-readable so the caller can render the matching remediation UI
// instead of a generic failure.
type GuardError struct {
	Reason GuardReason
	From   models.BookingStatus
	To     models.BookingStatus
}

func (e *GuardError) Error() string {
	switch e.Reason {
	case ReasonMissingRoom:
		return fmt.Sprintf("cannot move to %s: booking has no primary room assignment", e.To)
	case ReasonMissingPrimaryGuest:
		return fmt.Sprintf("cannot move to %s: booking has no primary guest", e.To)
	case ReasonFolioOpen:
		return fmt.Sprintf("cannot move to %s: folio is still open", e.To)
	default:
		return fmt.Sprintf("transition %s -> %s is not allowed", e.From, e.To)
	}
}
