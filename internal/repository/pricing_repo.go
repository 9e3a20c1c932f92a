package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stayops/reservation-core/internal/models"
	"gorm.io/gorm"
)

type PricingRuleRepository interface {
	// FindActiveForStay returns every active rule of the property whose
	// validity window intersects [firstNight, lastNight] and whose scope
	// covers the room type (exact or all-types). Ordering is stable but the
	// resolver applies its own precedence.
	FindActiveForStay(ctx context.Context, propertyID, roomTypeID uint, firstNight, lastNight time.Time) ([]models.PricingRule, error)
	// RuleSetRevision fingerprints the rule set in scope for the room type.
	// Any insert, edit, deactivation or delete of a rule that could affect a
	// quote changes the returned value.
	RuleSetRevision(ctx context.Context, propertyID, roomTypeID uint) (string, error)
}

type pricingRuleRepository struct {
	db *gorm.DB
}

func NewPricingRuleRepository(db *gorm.DB) PricingRuleRepository {
	return &pricingRuleRepository{db: db}
}

func (r *pricingRuleRepository) FindActiveForStay(ctx context.Context, propertyID, roomTypeID uint, firstNight, lastNight time.Time) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND active = ?", propertyID, true).
		Where("(room_type_id IS NULL OR room_type_id = ?)", roomTypeID).
		Where("valid_from <= ? AND valid_until >= ?", lastNight, firstNight).
		Order("id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *pricingRuleRepository) RuleSetRevision(ctx context.Context, propertyID, roomTypeID uint) (string, error) {
	var rev struct {
		N   int64
		Max *time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.PricingRule{}).
		Select("COUNT(*) AS n, MAX(updated_at) AS max").
		Where("property_id = ?", propertyID).
		Where("(room_type_id IS NULL OR room_type_id = ?)", roomTypeID).
		Scan(&rev).Error
	if err != nil {
		return "", err
	}
	if rev.Max == nil {
		return fmt.Sprintf("%d", rev.N), nil
	}
	return fmt.Sprintf("%d.%d", rev.N, rev.Max.UnixNano()), nil
}
