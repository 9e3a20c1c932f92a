package dto

import (
	"time"

	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/service"
)

type QuoteResponse struct {
	Nights           []service.NightlyRate `json:"nightly_schedule"`
	NightsSubtotal   float64               `json:"nights_subtotal"`
	ServicesSubtotal float64               `json:"services_subtotal"`
	Total            float64               `json:"total"`
}

type BookingResponse struct {
	ID            uint                 `json:"id"`
	ReferenceCode string               `json:"reference_code"`
	PropertyID    uint                 `json:"property_id"`
	RoomTypeID    uint                 `json:"room_type_id"`
	GroupID       *uint                `json:"group_id,omitempty"`
	GuestName     string               `json:"guest_name"`
	GuestEmail    *string              `json:"guest_email,omitempty"`
	GuestPhone    *string              `json:"guest_phone,omitempty"`
	CheckInDate   string               `json:"check_in_date"`
	CheckOutDate  string               `json:"check_out_date"`
	GuestCount    int                  `json:"guest_count"`
	Status        models.BookingStatus `json:"status"`
	Total         float64              `json:"total"`
	Notes         *string              `json:"notes,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

type AssignmentResponse struct {
	ID        uint      `json:"id"`
	BookingID uint      `json:"booking_id"`
	RoomID    uint      `json:"room_id"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

type ParticipantResponse struct {
	ID        uint    `json:"id"`
	BookingID uint    `json:"booking_id"`
	FullName  string  `json:"full_name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	IsPrimary bool    `json:"is_primary"`
}

type FolioResponse struct {
	Status       models.FolioStatus `json:"status"`
	TotalCharges float64            `json:"total_charges"`
	TotalPaid    float64            `json:"total_paid"`
	Balance      float64            `json:"balance"`
	Items        []models.FolioItem `json:"items"`
	Payments     []models.Payment   `json:"payments"`
}

type GroupResponse struct {
	ID               uint              `json:"id"`
	Name             string            `json:"name"`
	ResponsibleParty string            `json:"responsible_party"`
	Bookings         []BookingResponse `json:"bookings,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func ToQuoteResponse(q *service.Quote) QuoteResponse {
	return QuoteResponse{
		Nights:           q.Nights,
		NightsSubtotal:   q.NightsSubtotal,
		ServicesSubtotal: q.ServicesSubtotal,
		Total:            q.Total,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		ReferenceCode: b.ReferenceCode,
		PropertyID:    b.PropertyID,
		RoomTypeID:    b.RoomTypeID,
		GroupID:       b.GroupID,
		GuestName:     b.GuestName,
		GuestEmail:    b.GuestEmail,
		GuestPhone:    b.GuestPhone,
		CheckInDate:   b.CheckInDate.Format(dateLayout),
		CheckOutDate:  b.CheckOutDate.Format(dateLayout),
		GuestCount:    b.GuestCount,
		Status:        b.Status,
		Total:         b.Total,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
	}
}

func ToAssignmentResponse(a *models.RoomAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.ID,
		BookingID: a.BookingID,
		RoomID:    a.RoomID,
		IsPrimary: a.IsPrimary,
		CreatedAt: a.CreatedAt,
	}
}

func ToParticipantResponse(p *models.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:        p.ID,
		BookingID: p.BookingID,
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		IsPrimary: p.IsPrimary,
	}
}

func ToFolioResponse(v *service.FolioView) FolioResponse {
	return FolioResponse{
		Status:       v.Status,
		TotalCharges: v.Totals.TotalCharges,
		TotalPaid:    v.Totals.TotalPaid,
		Balance:      v.Totals.Balance,
		Items:        v.Items,
		Payments:     v.Payments,
	}
}

func ToGroupResponse(g *models.BookingGroup) GroupResponse {
	resp := GroupResponse{
		ID:               g.ID,
		Name:             g.Name,
		ResponsibleParty: g.ResponsibleParty,
	}
	for i := range g.Bookings {
		resp.Bookings = append(resp.Bookings, ToBookingResponse(&g.Bookings[i]))
	}
	return resp
}
