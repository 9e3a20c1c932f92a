package service

import (
	"context"
	"errors"

	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/repository"
	"gorm.io/gorm"
)

type LifecycleService interface {
	// Transition moves the booking to the requested status. The target may
	// be a legacy status string; it is normalized before any guard runs.
	Transition(ctx context.Context, bookingID uint, target string) (*models.Booking, error)
}

type lifecycleService struct {
	bookingRepo     repository.BookingRepository
	assignmentRepo  repository.AssignmentRepository
	participantRepo repository.ParticipantRepository
	folioRepo       repository.FolioRepository
	publisher       EventPublisher
}

func NewLifecycleService(
	bookingRepo repository.BookingRepository,
	assignmentRepo repository.AssignmentRepository,
	participantRepo repository.ParticipantRepository,
	folioRepo repository.FolioRepository,
	publisher EventPublisher,
) LifecycleService {
	return &lifecycleService{
		bookingRepo:     bookingRepo,
		assignmentRepo:  assignmentRepo,
		participantRepo: participantRepo,
		folioRepo:       folioRepo,
		publisher:       publisher,
	}
}

func (s *lifecycleService) Transition(ctx context.Context, bookingID uint, target string) (*models.Booking, error) {
	to, err := NormalizeLegacyStatus(target)
	if err != nil {
		return nil, err
	}

	var booking *models.Booking
	var from models.BookingStatus

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		// Stored rows may still carry legacy status strings.
		from, err = NormalizeLegacyStatus(string(b.Status))
		if err != nil {
			return err
		}

		if !transitionAllowed(from, to) {
			return &GuardError{Reason: ReasonWrongState, From: from, To: to}
		}

		if err := s.checkPreconditions(ctx, tx, b, from, to); err != nil {
			return err
		}

		if err := s.bookingRepo.UpdateStatus(ctx, tx, bookingID, to); err != nil {
			return err
		}

		b.Status = to
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.status_changed", map[string]any{
			"booking_id": bookingID,
			"from":       from,
			"to":         to,
		})
	}
	return booking, nil
}

// checkPreconditions runs the non-state guards: check-in needs a primary
// room and a primary guest (checked in that order), completion needs the
// folio closed. Check-out is deliberately unguarded: an open balance prompts
// for payment in the surrounding workflow but never blocks departure.
func (s *lifecycleService) checkPreconditions(ctx context.Context, tx *gorm.DB, booking *models.Booking, from, to models.BookingStatus) error {
	switch to {
	case models.StatusCheckedIn:
		if _, err := s.assignmentRepo.FindPrimary(ctx, tx, booking.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &GuardError{Reason: ReasonMissingRoom, From: from, To: to}
			}
			return err
		}
		if _, err := s.participantRepo.FindPrimary(ctx, tx, booking.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &GuardError{Reason: ReasonMissingPrimaryGuest, From: from, To: to}
			}
			return err
		}

	case models.StatusCompleted:
		folio, err := s.folioRepo.FindFolioByBookingForUpdate(ctx, tx, booking.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFolioNotFound
			}
			return err
		}
		if folio.Status != models.FolioClosed {
			return &GuardError{Reason: ReasonFolioOpen, From: from, To: to}
		}
	}
	return nil
}
