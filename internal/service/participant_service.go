package service

import (
	"context"
	"errors"

	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/repository"
	"gorm.io/gorm"
)

type AddParticipantInput struct {
	FullName string
	Email    *string
	Phone    *string
}

type ParticipantService interface {
	Add(ctx context.Context, bookingID uint, input AddParticipantInput) (*models.Participant, error)
	Remove(ctx context.Context, participantID uint) error
	Promote(ctx context.Context, participantID uint) (*models.Participant, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]models.Participant, error)
}

type participantService struct {
	participantRepo repository.ParticipantRepository
	bookingRepo     repository.BookingRepository
}

func NewParticipantService(participantRepo repository.ParticipantRepository, bookingRepo repository.BookingRepository) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		bookingRepo:     bookingRepo,
	}
}

// Add attaches a guest to the booking. The first participant becomes primary
// so a non-empty roster always has exactly one primary.
func (s *participantService) Add(ctx context.Context, bookingID uint, input AddParticipantInput) (*models.Participant, error) {
	var participant *models.Participant

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		existing, err := s.participantRepo.CountByBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		participant = &models.Participant{
			BookingID: bookingID,
			FullName:  input.FullName,
			Email:     input.Email,
			Phone:     input.Phone,
			IsPrimary: existing == 0,
		}
		return s.participantRepo.Create(ctx, tx, participant)
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// Remove detaches a guest. The primary participant can never be removed
// directly: promote another guest first, and the last remaining primary
// cannot be removed at all.
func (s *participantService) Remove(ctx context.Context, participantID uint) error {
	return s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		participant, err := s.participantRepo.FindByID(ctx, participantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}

		if _, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, participant.BookingID); err != nil {
			return err
		}

		if participant.IsPrimary {
			return ErrPrimaryParticipant
		}

		return s.participantRepo.Delete(ctx, tx, participantID)
	})
}

func (s *participantService) Promote(ctx context.Context, participantID uint) (*models.Participant, error) {
	var participant *models.Participant

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.participantRepo.FindByID(ctx, participantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}

		if _, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, p.BookingID); err != nil {
			return err
		}

		if err := s.participantRepo.ClearPrimary(ctx, tx, p.BookingID); err != nil {
			return err
		}
		if err := s.participantRepo.SetPrimary(ctx, tx, participantID); err != nil {
			return err
		}

		p.IsPrimary = true
		participant = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

func (s *participantService) ListByBooking(ctx context.Context, bookingID uint) ([]models.Participant, error) {
	return s.participantRepo.FindByBooking(ctx, bookingID)
}
