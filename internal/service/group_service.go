package service

import (
	"context"
	"errors"

	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/repository"
	"gorm.io/gorm"
)

type GroupService interface {
	CreateGroup(ctx context.Context, name, responsibleParty string) (*models.BookingGroup, error)
	GetGroup(ctx context.Context, id uint) (*models.BookingGroup, error)
	AttachBooking(ctx context.Context, groupID, bookingID uint) error
}

type groupService struct {
	groupRepo   repository.GroupRepository
	bookingRepo repository.BookingRepository
}

func NewGroupService(groupRepo repository.GroupRepository, bookingRepo repository.BookingRepository) GroupService {
	return &groupService{groupRepo: groupRepo, bookingRepo: bookingRepo}
}

func (s *groupService) CreateGroup(ctx context.Context, name, responsibleParty string) (*models.BookingGroup, error) {
	group := &models.BookingGroup{Name: name, ResponsibleParty: responsibleParty}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, id uint) (*models.BookingGroup, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

// AttachBooking puts a booking under the group's responsible party. A
// booking belongs to at most one group.
func (s *groupService) AttachBooking(ctx context.Context, groupID, bookingID uint) error {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	return s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.GroupID != nil {
			return ErrAlreadyGrouped
		}
		return s.bookingRepo.UpdateGroup(ctx, tx, bookingID, groupID)
	})
}
