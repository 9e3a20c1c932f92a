package models

import "time"

// PricingRule modifies a room type's base nightly price inside its validity
// window (both endpoints inclusive). A nil RoomTypeID scopes the rule to all
// room types of the property. BasePriceOverride, when set, beats
// PriceModifier even if both are present.
type PricingRule struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	PropertyID uint  `gorm:"not null;index" json:"property_id"`
	RoomTypeID *uint `gorm:"index" json:"room_type_id,omitempty"`

	ValidFrom  time.Time `gorm:"type:date;not null" json:"valid_from"`
	ValidUntil time.Time `gorm:"type:date;not null" json:"valid_until"`

	BasePriceOverride *float64 `json:"base_price_override,omitempty"`
	PriceModifier     *float64 `json:"price_modifier,omitempty"`

	MinStay *int `json:"min_stay,omitempty"`
	MaxStay *int `json:"max_stay,omitempty"`

	Active bool `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CoversNight reports whether the given night falls inside the rule's
// validity window.
func (r *PricingRule) CoversNight(night time.Time) bool {
	return !night.Before(r.ValidFrom) && !night.After(r.ValidUntil)
}

// AppliesTo reports whether the rule is scoped to the room type, either
// exactly or via the all-types wildcard.
func (r *PricingRule) AppliesTo(roomTypeID uint) bool {
	return r.RoomTypeID == nil || *r.RoomTypeID == roomTypeID
}
