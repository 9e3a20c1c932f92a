package repository

import (
	"context"

	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.BookingGroup) error
	FindByID(ctx context.Context, id uint) (*models.BookingGroup, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.BookingGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) FindByID(ctx context.Context, id uint) (*models.BookingGroup, error) {
	var group models.BookingGroup
	if err := r.db.WithContext(ctx).Preload("Bookings").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}
