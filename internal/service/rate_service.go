package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/repository"
	"github.com/stayops/reservation-core/pkg/cache"
	"gorm.io/gorm"
)

// QuoteRequest is a stay priced against the currently active rule set.
// Dates are date-only (midnight UTC); the stay window is [CheckIn, CheckOut).
type QuoteRequest struct {
	PropertyID uint
	RoomTypeID uint
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	ServiceIDs []uint
}

type NightlyRate struct {
	Night  time.Time `json:"night"`
	Price  float64   `json:"price"`
	RuleID *uint     `json:"rule_id,omitempty"`
}

type Quote struct {
	Nights           []NightlyRate `json:"nights"`
	NightsSubtotal   float64       `json:"nights_subtotal"`
	ServicesSubtotal float64       `json:"services_subtotal"`
	Total            float64       `json:"total"`
}

type RateService interface {
	ResolveRate(ctx context.Context, req QuoteRequest) (*Quote, error)
}

type rateService struct {
	catalogRepo repository.CatalogRepository
	pricingRepo repository.PricingRuleRepository
	quoteCache  *cache.QuoteCache
}

func NewRateService(catalogRepo repository.CatalogRepository, pricingRepo repository.PricingRuleRepository, quoteCache *cache.QuoteCache) RateService {
	return &rateService{
		catalogRepo: catalogRepo,
		pricingRepo: pricingRepo,
		quoteCache:  quoteCache,
	}
}

// ResolveRate computes the nightly schedule for the stay. It is a pure
// function of the request and the active rule set: identical inputs against
// an unchanged rule set reproduce an identical quote.
func (s *rateService) ResolveRate(ctx context.Context, req QuoteRequest) (*Quote, error) {
	nights := nightsBetween(req.CheckIn, req.CheckOut)
	if nights < 1 {
		return nil, fmt.Errorf("%w: check-out must be after check-in", ErrInvalidRange)
	}
	if req.Guests < 1 {
		return nil, fmt.Errorf("%w: guest count must be at least 1", ErrInvalidRange)
	}

	if _, err := s.catalogRepo.FindProperty(ctx, req.PropertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	roomType, err := s.catalogRepo.FindRoomType(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	if roomType.PropertyID != req.PropertyID {
		return nil, ErrRoomTypeNotFound
	}
	if roomType.MaxGuests > 0 && req.Guests > roomType.MaxGuests {
		return nil, fmt.Errorf("%w: guest count %d exceeds room type capacity %d", ErrInvalidRange, req.Guests, roomType.MaxGuests)
	}

	// The cache key carries the rule set revision, so editing, adding or
	// deactivating a rule invalidates cached quotes immediately instead of
	// serving the superseded price for the rest of the TTL.
	revision, err := s.pricingRepo.RuleSetRevision(ctx, req.PropertyID, req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	key := quoteCacheKey(req, revision)
	var cached Quote
	if s.quoteCache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	lastNight := req.CheckOut.AddDate(0, 0, -1)
	rules, err := s.pricingRepo.FindActiveForStay(ctx, req.PropertyID, req.RoomTypeID, req.CheckIn, lastNight)
	if err != nil {
		return nil, err
	}

	schedule, contributing := buildSchedule(roomType.BasePrice, req.RoomTypeID, req.CheckIn, nights, rules)

	if err := checkStayBounds(contributing, nights); err != nil {
		return nil, err
	}

	servicesSubtotal, err := s.servicesSubtotal(ctx, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	var nightsSubtotal float64
	for _, n := range schedule {
		nightsSubtotal += n.Price
	}
	nightsSubtotal = round2(nightsSubtotal)

	quote := &Quote{
		Nights:           schedule,
		NightsSubtotal:   nightsSubtotal,
		ServicesSubtotal: servicesSubtotal,
		Total:            round2(nightsSubtotal + servicesSubtotal),
	}

	s.quoteCache.Set(ctx, key, quote)
	return quote, nil
}

func (s *rateService) servicesSubtotal(ctx context.Context, ids []uint) (float64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	services, err := s.catalogRepo.FindAddonServices(ctx, ids)
	if err != nil {
		return 0, err
	}
	found := make(map[uint]float64, len(services))
	for _, svc := range services {
		found[svc.ID] = svc.UnitPrice
	}
	var subtotal float64
	for _, id := range ids {
		price, ok := found[id]
		if !ok {
			return 0, fmt.Errorf("%w: service %d", ErrServiceNotFound, id)
		}
		subtotal += price
	}
	return round2(subtotal), nil
}

// buildSchedule prices each night of the stay and returns the set of rules
// that contributed to at least one night, keyed by rule id.
func buildSchedule(basePrice float64, roomTypeID uint, checkIn time.Time, nights int, rules []models.PricingRule) ([]NightlyRate, map[uint]*models.PricingRule) {
	schedule := make([]NightlyRate, 0, nights)
	contributing := make(map[uint]*models.PricingRule)

	for i := 0; i < nights; i++ {
		night := checkIn.AddDate(0, 0, i)

		var candidates []*models.PricingRule
		for j := range rules {
			rule := &rules[j]
			if rule.Active && rule.AppliesTo(roomTypeID) && rule.CoversNight(night) {
				candidates = append(candidates, rule)
			}
		}

		winner := pickRule(candidates)

		rate := NightlyRate{Night: night, Price: round2(basePrice)}
		if winner != nil {
			rate.Price = nightPrice(basePrice, winner)
			rate.RuleID = &winner.ID
			contributing[winner.ID] = winner
		}
		schedule = append(schedule, rate)
	}

	return schedule, contributing
}

// pickRule selects the winning rule for one night. A room-type-scoped rule
// outranks an all-types rule; among equal specificity the most recently
// created rule wins, with the higher id as the final tie-break.
func pickRule(candidates []*models.PricingRule) *models.PricingRule {
	var winner *models.PricingRule
	for _, rule := range candidates {
		if winner == nil || outranks(rule, winner) {
			winner = rule
		}
	}
	return winner
}

func outranks(a, b *models.PricingRule) bool {
	aScoped := a.RoomTypeID != nil
	bScoped := b.RoomTypeID != nil
	if aScoped != bScoped {
		return aScoped
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// nightPrice applies the rule's effect to the base price. An absolute
// override beats a modifier when both are present.
func nightPrice(basePrice float64, rule *models.PricingRule) float64 {
	switch {
	case rule.BasePriceOverride != nil:
		return round2(*rule.BasePriceOverride)
	case rule.PriceModifier != nil:
		return round2(basePrice * *rule.PriceModifier)
	default:
		return round2(basePrice)
	}
}

// checkStayBounds rejects the whole quote when any contributing rule defines
// min/max stay bounds the total stay length violates.
func checkStayBounds(contributing map[uint]*models.PricingRule, nights int) error {
	for _, rule := range contributing {
		if rule.MinStay != nil && nights < *rule.MinStay {
			return &StayLengthError{RuleID: rule.ID, Nights: nights, MinStay: rule.MinStay, MaxStay: rule.MaxStay}
		}
		if rule.MaxStay != nil && nights > *rule.MaxStay {
			return &StayLengthError{RuleID: rule.ID, Nights: nights, MinStay: rule.MinStay, MaxStay: rule.MaxStay}
		}
	}
	return nil
}

func nightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func quoteCacheKey(req QuoteRequest, revision string) string {
	key := fmt.Sprintf("quote:%s:%d:%d:%s:%s:%d",
		revision, req.PropertyID, req.RoomTypeID,
		req.CheckIn.Format("2006-01-02"), req.CheckOut.Format("2006-01-02"),
		req.Guests)
	for _, id := range req.ServiceIDs {
		key += fmt.Sprintf(":%d", id)
	}
	return key
}
