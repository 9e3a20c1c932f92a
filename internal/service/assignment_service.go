package service

import (
	"context"
	"errors"

	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/repository"
	"gorm.io/gorm"
)

type AssignmentService interface {
	Assign(ctx context.Context, bookingID, roomID uint) (*models.RoomAssignment, error)
	Unassign(ctx context.Context, assignmentID uint) error
	Promote(ctx context.Context, assignmentID uint) (*models.RoomAssignment, error)
	PrimaryRoom(ctx context.Context, bookingID uint) (*models.RoomAssignment, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]models.RoomAssignment, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	bookingRepo    repository.BookingRepository
	catalogRepo    repository.CatalogRepository
}

func NewAssignmentService(assignmentRepo repository.AssignmentRepository, bookingRepo repository.BookingRepository, catalogRepo repository.CatalogRepository) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		bookingRepo:    bookingRepo,
		catalogRepo:    catalogRepo,
	}
}

// Assign links a room to the booking. The first assignment becomes primary
// automatically; later ones stay secondary until promoted. A room already
// linked to another active booking over an intersecting stay window is
// rejected outright.
func (s *assignmentService) Assign(ctx context.Context, bookingID, roomID uint) (*models.RoomAssignment, error) {
	var assignment *models.RoomAssignment

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		// Stored rows may still carry legacy status strings; normalize
		// before the guard, the same way lifecycle transitions do.
		status, err := NormalizeLegacyStatus(string(booking.Status))
		if err != nil {
			return err
		}
		if !status.IsActive() {
			return &GuardError{Reason: ReasonWrongState, From: status}
		}

		room, err := s.catalogRepo.FindRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if room.PropertyID != booking.PropertyID {
			return ErrRoomNotFound
		}

		conflicts, err := s.assignmentRepo.CountConflicting(ctx, tx, roomID, bookingID, booking.CheckInDate, booking.CheckOutDate, activeStatusForms())
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrRoomConflict
		}

		existing, err := s.assignmentRepo.CountByBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		assignment = &models.RoomAssignment{
			BookingID: bookingID,
			RoomID:    roomID,
			IsPrimary: existing == 0,
		}
		return s.assignmentRepo.Create(ctx, tx, assignment)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// Unassign removes the link. Dropping the primary link is allowed and leaves
// the booking without a primary room; check-in is then refused until a room
// is assigned again.
func (s *assignmentService) Unassign(ctx context.Context, assignmentID uint) error {
	return s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignment, err := s.assignmentRepo.FindByID(ctx, assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		if _, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, assignment.BookingID); err != nil {
			return err
		}

		return s.assignmentRepo.Delete(ctx, tx, assignmentID)
	})
}

func (s *assignmentService) Promote(ctx context.Context, assignmentID uint) (*models.RoomAssignment, error) {
	var assignment *models.RoomAssignment

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.assignmentRepo.FindByID(ctx, assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		if _, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, a.BookingID); err != nil {
			return err
		}

		if err := s.assignmentRepo.ClearPrimary(ctx, tx, a.BookingID); err != nil {
			return err
		}
		if err := s.assignmentRepo.SetPrimary(ctx, tx, assignmentID); err != nil {
			return err
		}

		a.IsPrimary = true
		assignment = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) PrimaryRoom(ctx context.Context, bookingID uint) (*models.RoomAssignment, error) {
	assignment, err := s.assignmentRepo.FindPrimary(ctx, s.bookingRepo.GetDB(), bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPrimaryRoom
		}
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) ListByBooking(ctx context.Context, bookingID uint) ([]models.RoomAssignment, error) {
	return s.assignmentRepo.FindByBooking(ctx, bookingID)
}
