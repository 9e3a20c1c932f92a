package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/repository"
	"gorm.io/gorm"
)

// CreateBookingInput carries an accepted quote. The rate is re-resolved
// server-side so the stored total always matches the active rule set, not a
// client-supplied number.
type CreateBookingInput struct {
	Quote      QuoteRequest
	GuestName  string
	GuestEmail *string
	GuestPhone *string
	Notes      *string
}

type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, propertyID uint, status *models.BookingStatus) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	folioRepo   repository.FolioRepository
	rateService RateService
	publisher   EventPublisher
}

func NewBookingService(bookingRepo repository.BookingRepository, folioRepo repository.FolioRepository, rateService RateService, publisher EventPublisher) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		folioRepo:   folioRepo,
		rateService: rateService,
		publisher:   publisher,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	quote, err := s.rateService.ResolveRate(ctx, input.Quote)
	if err != nil {
		return nil, err
	}

	services, err := json.Marshal(input.Quote.ServiceIDs)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ReferenceCode: uuid.NewString(),
		PropertyID:    input.Quote.PropertyID,
		RoomTypeID:    input.Quote.RoomTypeID,
		GuestName:     input.GuestName,
		GuestEmail:    input.GuestEmail,
		GuestPhone:    input.GuestPhone,
		CheckInDate:   input.Quote.CheckIn,
		CheckOutDate:  input.Quote.CheckOut,
		GuestCount:    input.Quote.Guests,
		Status:        models.StatusPending,
		Total:         quote.Total,
		Notes:         input.Notes,
		Services:      services,
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}
		// Every booking gets its folio up front; postings start accruing
		// during the stay.
		return s.folioRepo.CreateFolio(ctx, tx, &models.Folio{
			BookingID: booking.ID,
			Status:    models.FolioOpen,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.created", map[string]any{
			"booking_id":     booking.ID,
			"reference_code": booking.ReferenceCode,
			"total":          booking.Total,
		})
	}
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, propertyID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookingRepo.FindByProperty(ctx, propertyID, status)
}
