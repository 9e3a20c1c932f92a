package repository

import (
	"context"

	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/gorm"
)

type ParticipantRepository interface {
	Create(ctx context.Context, tx *gorm.DB, participant *models.Participant) error
	FindByID(ctx context.Context, id uint) (*models.Participant, error)
	FindByBooking(ctx context.Context, bookingID uint) ([]models.Participant, error)
	FindPrimary(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Participant, error)
	CountByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (int64, error)
	ClearPrimary(ctx context.Context, tx *gorm.DB, bookingID uint) error
	SetPrimary(ctx context.Context, tx *gorm.DB, participantID uint) error
	Delete(ctx context.Context, tx *gorm.DB, participantID uint) error
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(ctx context.Context, tx *gorm.DB, participant *models.Participant) error {
	return tx.WithContext(ctx).Create(participant).Error
}

func (r *participantRepository) FindByID(ctx context.Context, id uint) (*models.Participant, error) {
	var p models.Participant
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participantRepository) FindByBooking(ctx context.Context, bookingID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) FindPrimary(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Participant, error) {
	var p models.Participant
	err := tx.WithContext(ctx).
		Where("booking_id = ? AND is_primary = ?", bookingID, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participantRepository) CountByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Participant{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count, err
}

func (r *participantRepository) ClearPrimary(ctx context.Context, tx *gorm.DB, bookingID uint) error {
	return tx.WithContext(ctx).
		Model(&models.Participant{}).
		Where("booking_id = ? AND is_primary = ?", bookingID, true).
		Update("is_primary", false).Error
}

func (r *participantRepository) SetPrimary(ctx context.Context, tx *gorm.DB, participantID uint) error {
	return tx.WithContext(ctx).
		Model(&models.Participant{}).
		Where("id = ?", participantID).
		Update("is_primary", true).Error
}

func (r *participantRepository) Delete(ctx context.Context, tx *gorm.DB, participantID uint) error {
	return tx.WithContext(ctx).
		Delete(&models.Participant{}, participantID).Error
}
