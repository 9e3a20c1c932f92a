package repository

import (
	"context"

	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/gorm"
)

// FolioRepository persists the append-only ledger. Items and payments are
// only ever inserted; totals are derived by the service from the full
// history.
type FolioRepository interface {
	CreateFolio(ctx context.Context, tx *gorm.DB, folio *models.Folio) error
	FindFolioByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Folio, error)
	FindFolioByBookingForUpdate(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Folio, error)
	CloseFolio(ctx context.Context, tx *gorm.DB, folioID uint) error

	AppendItem(ctx context.Context, tx *gorm.DB, item *models.FolioItem) error
	AppendPayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	ItemsByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.FolioItem, error)
	PaymentsByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.Payment, error)

	ItemKeyExists(ctx context.Context, tx *gorm.DB, key string) (bool, error)
	PaymentKeyExists(ctx context.Context, tx *gorm.DB, key string) (bool, error)

	GetDB() *gorm.DB
}

type folioRepository struct {
	db *gorm.DB
}

func NewFolioRepository(db *gorm.DB) FolioRepository {
	return &folioRepository{db: db}
}

func (r *folioRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *folioRepository) CreateFolio(ctx context.Context, tx *gorm.DB, folio *models.Folio) error {
	return tx.WithContext(ctx).Create(folio).Error
}

func (r *folioRepository) FindFolioByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Folio, error) {
	var folio models.Folio
	if err := tx.WithContext(ctx).Where("booking_id = ?", bookingID).First(&folio).Error; err != nil {
		return nil, err
	}
	return &folio, nil
}

func (r *folioRepository) FindFolioByBookingForUpdate(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Folio, error) {
	var folio models.Folio
	err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		Where("booking_id = ?", bookingID).
		First(&folio).Error
	if err != nil {
		return nil, err
	}
	return &folio, nil
}

func (r *folioRepository) CloseFolio(ctx context.Context, tx *gorm.DB, folioID uint) error {
	return tx.WithContext(ctx).
		Model(&models.Folio{}).
		Where("id = ?", folioID).
		Updates(map[string]any{
			"status":    models.FolioClosed,
			"closed_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *folioRepository) AppendItem(ctx context.Context, tx *gorm.DB, item *models.FolioItem) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *folioRepository) AppendPayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *folioRepository) ItemsByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.FolioItem, error) {
	var items []models.FolioItem
	err := tx.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *folioRepository) PaymentsByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := tx.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *folioRepository) ItemKeyExists(ctx context.Context, tx *gorm.DB, key string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.FolioItem{}).
		Where("idempotency_key = ?", key).
		Count(&count).Error
	return count > 0, err
}

func (r *folioRepository) PaymentKeyExists(ctx context.Context, tx *gorm.DB, key string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("idempotency_key = ?", key).
		Count(&count).Error
	return count > 0, err
}
