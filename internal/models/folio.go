package models

import "time"

type FolioStatus string

const (
	FolioOpen   FolioStatus = "open"
	FolioClosed FolioStatus = "closed"
)

// Folio carries the open/closed flag for a booking's ledger. Totals are
// never stored here: they are always derived by folding the item and payment
// history (see FolioTotals).
type Folio struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	BookingID uint        `gorm:"not null;uniqueIndex" json:"booking_id"`
	Status    FolioStatus `gorm:"type:varchar(10);not null;default:'open'" json:"status"`
	ClosedAt  *time.Time  `json:"closed_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type ChargeCategory string

const (
	CategoryRate       ChargeCategory = "rate"
	CategoryService    ChargeCategory = "service"
	CategoryAdjustment ChargeCategory = "adjustment"
)

// FolioItem is one appended charge. Positive amounts are owed by the guest;
// adjustments may be negative. Rows are never updated or deleted.
type FolioItem struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	BookingID      uint           `gorm:"not null;index" json:"booking_id"`
	Description    string         `gorm:"not null" json:"description"`
	Amount         float64        `gorm:"not null" json:"amount"`
	Category       ChargeCategory `gorm:"type:varchar(20);not null" json:"category"`
	IdempotencyKey *string        `gorm:"type:varchar(36);uniqueIndex" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Payment is one appended payment against a booking's folio. Append-only,
// like FolioItem.
type Payment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BookingID      uint      `gorm:"not null;index" json:"booking_id"`
	Amount         float64   `gorm:"not null" json:"amount"`
	Method         string    `gorm:"type:varchar(30);not null" json:"method"`
	IdempotencyKey *string   `gorm:"type:varchar(36);uniqueIndex" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// FolioTotals is the derived view over the item/payment history.
type FolioTotals struct {
	TotalCharges float64 `json:"total_charges"`
	TotalPaid    float64 `json:"total_paid"`
	Balance      float64 `json:"balance"`
}
