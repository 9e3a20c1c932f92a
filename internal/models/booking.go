package models

import (
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// IsTerminal reports whether no further transition may leave the status.
// checked_out is not terminal: it may still move to completed.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusNoShow, StatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether the booking still occupies its rooms for the
// purpose of assignment conflict checks.
func (s BookingStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

type Booking struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ReferenceCode string `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference_code"`
	PropertyID    uint   `gorm:"not null;index" json:"property_id"`
	RoomTypeID    uint   `gorm:"not null" json:"room_type_id"`
	GroupID       *uint  `gorm:"index" json:"group_id,omitempty"`

	GuestName  string  `gorm:"not null" json:"guest_name"`
	GuestEmail *string `json:"guest_email,omitempty"`
	GuestPhone *string `json:"guest_phone,omitempty"`

	CheckInDate  time.Time     `gorm:"type:date;not null" json:"check_in_date"`
	CheckOutDate time.Time     `gorm:"type:date;not null" json:"check_out_date"`
	GuestCount   int           `gorm:"not null;default:1" json:"guest_count"`
	Status       BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Total        float64       `gorm:"not null" json:"total"`
	Notes        *string       `json:"notes,omitempty"`

	// Selected add-on service ids, captured at quote acceptance.
	Services datatypes.JSON `json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assignments  []RoomAssignment `gorm:"foreignKey:BookingID" json:"assignments,omitempty"`
	Participants []Participant    `gorm:"foreignKey:BookingID" json:"participants,omitempty"`
}

type BookingGroup struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	ResponsibleParty string    `gorm:"not null" json:"responsible_party"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Bookings []Booking `gorm:"foreignKey:GroupID" json:"bookings,omitempty"`
}
