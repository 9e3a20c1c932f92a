package repository

import (
	"context"
	"time"

	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *models.RoomAssignment) error
	FindByID(ctx context.Context, id uint) (*models.RoomAssignment, error)
	FindByBooking(ctx context.Context, bookingID uint) ([]models.RoomAssignment, error)
	FindPrimary(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.RoomAssignment, error)
	CountByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (int64, error)
	ClearPrimary(ctx context.Context, tx *gorm.DB, bookingID uint) error
	SetPrimary(ctx context.Context, tx *gorm.DB, assignmentID uint) error
	Delete(ctx context.Context, tx *gorm.DB, assignmentID uint) error
	// CountConflicting counts assignments of the room to other bookings whose
	// status is in the given set and whose stay windows overlap
	// [checkIn, checkOut). Callers pass every stored spelling of the statuses
	// they care about, legacy synonyms included.
	CountConflicting(ctx context.Context, tx *gorm.DB, roomID, excludeBookingID uint, checkIn, checkOut time.Time, statuses []models.BookingStatus) (int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *models.RoomAssignment) error {
	return tx.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uint) (*models.RoomAssignment, error) {
	var a models.RoomAssignment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) FindByBooking(ctx context.Context, bookingID uint) ([]models.RoomAssignment, error) {
	var assignments []models.RoomAssignment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) FindPrimary(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.RoomAssignment, error) {
	var a models.RoomAssignment
	err := tx.WithContext(ctx).
		Where("booking_id = ? AND is_primary = ?", bookingID, true).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) CountByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.RoomAssignment{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepository) ClearPrimary(ctx context.Context, tx *gorm.DB, bookingID uint) error {
	return tx.WithContext(ctx).
		Model(&models.RoomAssignment{}).
		Where("booking_id = ? AND is_primary = ?", bookingID, true).
		Update("is_primary", false).Error
}

func (r *assignmentRepository) SetPrimary(ctx context.Context, tx *gorm.DB, assignmentID uint) error {
	return tx.WithContext(ctx).
		Model(&models.RoomAssignment{}).
		Where("id = ?", assignmentID).
		Update("is_primary", true).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, tx *gorm.DB, assignmentID uint) error {
	return tx.WithContext(ctx).
		Delete(&models.RoomAssignment{}, assignmentID).Error
}

func (r *assignmentRepository) CountConflicting(ctx context.Context, tx *gorm.DB, roomID, excludeBookingID uint, checkIn, checkOut time.Time, statuses []models.BookingStatus) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.RoomAssignment{}).
		Joins("JOIN bookings ON bookings.id = room_assignments.booking_id").
		Where("room_assignments.room_id = ?", roomID).
		Where("room_assignments.booking_id <> ?", excludeBookingID).
		Where("bookings.status IN ?", statuses).
		Where("bookings.check_in_date < ? AND bookings.check_out_date > ?", checkOut, checkIn).
		Count(&count).Error
	return count, err
}
