package models

import "time"

// Catalog read models. The property/room/service catalog is owned by an
// external service; rows here are synced copies upserted by the catalog
// consumer and treated as read-only by the reservation core.

type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Timezone  string    `gorm:"not null;default:'UTC'" json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoomType struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	Name       string    `gorm:"not null" json:"name"`
	BasePrice  float64   `gorm:"not null" json:"base_price"`
	MaxGuests  int       `gorm:"not null;default:2" json:"max_guests"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Room struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	PropertyID         uint      `gorm:"not null;index" json:"property_id"`
	RoomTypeID         uint      `gorm:"not null;index" json:"room_type_id"`
	Number             string    `gorm:"not null" json:"number"`
	HousekeepingStatus string    `gorm:"type:varchar(20);not null;default:'clean'" json:"housekeeping_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AddonService is a bookable extra (breakfast, parking, spa) with a flat
// unit price applied once per stay.
type AddonService struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	Name       string    `gorm:"not null" json:"name"`
	UnitPrice  float64   `gorm:"not null" json:"unit_price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
