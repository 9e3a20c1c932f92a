package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/repository"
	"gorm.io/gorm"
)

// FolioView is the caller-facing ledger snapshot: derived totals plus the
// full posting history they were folded from.
type FolioView struct {
	Status   models.FolioStatus `json:"status"`
	Totals   models.FolioTotals `json:"totals"`
	Items    []models.FolioItem `json:"items"`
	Payments []models.Payment   `json:"payments"`
}

type FolioService interface {
	AddCharge(ctx context.Context, bookingID uint, description string, amount float64, category models.ChargeCategory, idemKey *string) (*models.FolioItem, error)
	AddPayment(ctx context.Context, bookingID uint, amount float64, method string, idemKey *string) (*models.Payment, error)
	GetFolio(ctx context.Context, bookingID uint) (*FolioView, error)
	Close(ctx context.Context, bookingID uint) (*models.Folio, error)
}

type folioService struct {
	folioRepo   repository.FolioRepository
	bookingRepo repository.BookingRepository
	publisher   EventPublisher
}

func NewFolioService(folioRepo repository.FolioRepository, bookingRepo repository.BookingRepository, publisher EventPublisher) FolioService {
	return &folioService{
		folioRepo:   folioRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
	}
}

func (s *folioService) AddCharge(ctx context.Context, bookingID uint, description string, amount float64, category models.ChargeCategory, idemKey *string) (*models.FolioItem, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	switch category {
	case models.CategoryRate, models.CategoryService, models.CategoryAdjustment:
	default:
		return nil, fmt.Errorf("unknown charge category %q", category)
	}

	var item *models.FolioItem
	err := s.folioRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		folio, err := s.lockOpenFolio(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if idemKey != nil {
			exists, err := s.folioRepo.ItemKeyExists(ctx, tx, *idemKey)
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicatePosting
			}
		}

		item = &models.FolioItem{
			BookingID:      folio.BookingID,
			Description:    description,
			Amount:         round2(amount),
			Category:       category,
			IdempotencyKey: idemKey,
		}
		return s.folioRepo.AppendItem(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *folioService) AddPayment(ctx context.Context, bookingID uint, amount float64, method string, idemKey *string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var payment *models.Payment
	err := s.folioRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		folio, err := s.lockOpenFolio(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if idemKey != nil {
			exists, err := s.folioRepo.PaymentKeyExists(ctx, tx, *idemKey)
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicatePosting
			}
		}

		payment = &models.Payment{
			BookingID:      folio.BookingID,
			Amount:         round2(amount),
			Method:         method,
			IdempotencyKey: idemKey,
		}
		return s.folioRepo.AppendPayment(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// GetFolio reads the folio, its items and its payments inside one
// repeatable-read transaction so concurrent postings cannot skew the
// snapshot the totals are folded from.
func (s *folioService) GetFolio(ctx context.Context, bookingID uint) (*FolioView, error) {
	var view *FolioView
	err := s.folioRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		folio, err := s.folioRepo.FindFolioByBooking(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFolioNotFound
			}
			return err
		}

		items, err := s.folioRepo.ItemsByBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		payments, err := s.folioRepo.PaymentsByBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		view = &FolioView{
			Status:   folio.Status,
			Totals:   foldTotals(items, payments),
			Items:    items,
			Payments: payments,
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Close marks the folio read-only. Permitted only when the derived balance
// is zero or negative; the balance is folded inside the same transaction
// that takes the folio lock, so a concurrent posting cannot slip past the
// check.
func (s *folioService) Close(ctx context.Context, bookingID uint) (*models.Folio, error) {
	var folio *models.Folio
	err := s.folioRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		f, err := s.folioRepo.FindFolioByBookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFolioNotFound
			}
			return err
		}
		if f.Status == models.FolioClosed {
			return ErrFolioClosedLedger
		}

		items, err := s.folioRepo.ItemsByBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		payments, err := s.folioRepo.PaymentsByBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		totals := foldTotals(items, payments)
		if totals.Balance > 0 {
			return fmt.Errorf("%w: %.2f outstanding", ErrBalancePending, totals.Balance)
		}

		if err := s.folioRepo.CloseFolio(ctx, tx, f.ID); err != nil {
			return err
		}
		f.Status = models.FolioClosed
		folio = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("folio.closed", map[string]any{
			"booking_id": bookingID,
		})
	}
	return folio, nil
}

// lockOpenFolio takes the booking row lock, then the folio row lock, and
// verifies the folio still accepts postings.
func (s *folioService) lockOpenFolio(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Folio, error) {
	if _, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	folio, err := s.folioRepo.FindFolioByBookingForUpdate(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolioNotFound
		}
		return nil, err
	}
	if folio.Status == models.FolioClosed {
		return nil, ErrFolioClosedLedger
	}
	return folio, nil
}

// foldTotals derives the folio totals as a pure fold over the posting
// history. There is no cached running total anywhere that could drift.
func foldTotals(items []models.FolioItem, payments []models.Payment) models.FolioTotals {
	var totals models.FolioTotals
	for _, item := range items {
		totals.TotalCharges += item.Amount
	}
	for _, payment := range payments {
		totals.TotalPaid += payment.Amount
	}
	totals.TotalCharges = round2(totals.TotalCharges)
	totals.TotalPaid = round2(totals.TotalPaid)
	totals.Balance = round2(totals.TotalCharges - totals.TotalPaid)
	return totals
}
