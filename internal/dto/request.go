package dto

import (
	"strings"
	"time"

	"github.com/stayops/reservation-core/internal/service"
)

const dateLayout = "2006-01-02"

type QuoteRequest struct {
	PropertyID uint   `json:"property_id" validate:"required"`
	RoomTypeID uint   `json:"room_type_id" validate:"required"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests     int    `json:"guests" validate:"required,gte=1"`
	ServiceIDs []uint `json:"service_ids" validate:"omitempty,dive,required"`
}

// ToServiceRequest parses the date strings; the datetime validation tag has
// already run, so errors here only cover requests that bypassed validation.
func (r *QuoteRequest) ToServiceRequest() (service.QuoteRequest, error) {
	checkIn, err := time.Parse(dateLayout, r.CheckIn)
	if err != nil {
		return service.QuoteRequest{}, err
	}
	checkOut, err := time.Parse(dateLayout, r.CheckOut)
	if err != nil {
		return service.QuoteRequest{}, err
	}
	return service.QuoteRequest{
		PropertyID: r.PropertyID,
		RoomTypeID: r.RoomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     r.Guests,
		ServiceIDs: r.ServiceIDs,
	}, nil
}

type CreateBookingRequest struct {
	QuoteRequest
	GuestName  string `json:"guest_name" validate:"required"`
	GuestEmail string `json:"guest_email" validate:"omitempty,email"`
	GuestPhone string `json:"guest_phone"`
	Notes      string `json:"notes"`
}

type AssignRoomRequest struct {
	RoomID uint `json:"room_id" validate:"required"`
}

type AddParticipantRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

type AddChargeRequest struct {
	Description    string  `json:"description" validate:"required"`
	Amount         float64 `json:"amount" validate:"required"`
	Category       string  `json:"category" validate:"required,oneof=rate service adjustment"`
	IdempotencyKey string  `json:"idempotency_key" validate:"omitempty,uuid"`
}

type AddPaymentRequest struct {
	Amount         float64 `json:"amount" validate:"required"`
	Method         string  `json:"method" validate:"required"`
	IdempotencyKey string  `json:"idempotency_key" validate:"omitempty,uuid"`
}

type TransitionRequest struct {
	TargetStatus string `json:"target_status" validate:"required"`
}

type CreateGroupRequest struct {
	Name             string `json:"name" validate:"required"`
	ResponsibleParty string `json:"responsible_party" validate:"required"`
}

// Optional collapses the empty-string-as-null convention from older clients
// to a single absent representation, once, at the boundary.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
