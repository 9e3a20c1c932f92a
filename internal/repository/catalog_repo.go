package repository

import (
	"context"

	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository reads the synced catalog rows. The reservation core never
// writes these outside the catalog consumer.
type CatalogRepository interface {
	FindProperty(ctx context.Context, id uint) (*models.Property, error)
	FindRoomType(ctx context.Context, id uint) (*models.RoomType, error)
	FindRoom(ctx context.Context, id uint) (*models.Room, error)
	FindAddonServices(ctx context.Context, ids []uint) ([]models.AddonService, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindProperty(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) FindRoomType(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := r.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *catalogRepository) FindRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *catalogRepository) FindAddonServices(ctx context.Context, ids []uint) ([]models.AddonService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var services []models.AddonService
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}
