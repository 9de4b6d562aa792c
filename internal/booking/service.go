package booking

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/db"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

// Identities supplies the role and confirmation state of an account.
type Identities interface {
	Identity(ctx context.Context, userID string) (user.Identity, error)
}

// Inventory resolves lane numbers and time slots.
type Inventory interface {
	ResolveTimeSlot(ctx context.Context, raw string) (string, error)
	GetLane(ctx context.Context, number int) (*inventory.Lane, error)
}

type Trainers interface {
	GetByID(ctx context.Context, id string) (*trainer.Trainer, error)
	Scheduled(ctx context.Context, date time.Time, slot string) ([]trainer.Brief, error)
}

type Closures interface {
	IsClosed(ctx context.Context, date time.Time, slot string) (bool, error)
}

type ReserveRequest struct {
	OwnerID   string
	GroupID   *string
	Date      time.Time
	Time      string
	Lane      int
	TrainerID *string
}

type AmendRequest struct {
	Date      time.Time
	Time      string
	Lane      int
	TrainerID *string
}

type Service interface {
	// Reserve books one lane. Rejections are checked in order: the owner may
	// not reserve, the slot is closed, the lane is taken, the trainer is taken.
	// A cell of a group (GroupID set) leaves cache invalidation to the caller.
	Reserve(ctx context.Context, req ReserveRequest) (*Booking, error)
	// Amend moves a booking. Its own row never counts as a conflict.
	Amend(ctx context.Context, id string, req AmendRequest, actor user.Identity) (*Booking, error)
	// Cancel deletes a booking. A booking that is already gone is not an error.
	Cancel(ctx context.Context, id string, actor user.Identity) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListForOwner(ctx context.Context, ownerID string) ([]*Booking, error)
	ListForDate(ctx context.Context, date time.Time) ([]*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// DeleteByGroup removes every cell of a group booking without permission checks.
	DeleteByGroup(ctx context.Context, groupID string) (int, error)
}

type service struct {
	repo        Repository
	tx          db.Transactor
	identities  Identities
	inventory   Inventory
	trainers    Trainers
	closures    Closures
	invalidator cache.Invalidator
}

func NewService(
	repo Repository,
	tx db.Transactor,
	identities Identities,
	inv Inventory,
	trainers Trainers,
	closures Closures,
	invalidator cache.Invalidator,
) Service {
	return &service{
		repo:        repo,
		tx:          tx,
		identities:  identities,
		inventory:   inv,
		trainers:    trainers,
		closures:    closures,
		invalidator: invalidator,
	}
}

// cell is a validated set of booking coordinates.
type cell struct {
	date      time.Time
	slot      string
	lane      int
	trainerID *string
}

// resolve checks that the referenced slot, lane and trainer exist and that the
// trainer works at that slot. A booking may keep its current trainer even off schedule.
func (s *service) resolve(ctx context.Context, date time.Time, slot string, lane int, trainerID, current *string) (cell, error) {
	resolved, err := s.inventory.ResolveTimeSlot(ctx, slot)
	if err != nil {
		return cell{}, err
	}
	if _, err := s.inventory.GetLane(ctx, lane); err != nil {
		return cell{}, err
	}
	if trainerID != nil && *trainerID == "" {
		trainerID = nil
	}
	if trainerID != nil {
		if _, err := s.trainers.GetByID(ctx, *trainerID); err != nil {
			return cell{}, err
		}
		if current == nil || *current != *trainerID {
			if err := s.checkScheduled(ctx, date, resolved, *trainerID); err != nil {
				return cell{}, err
			}
		}
	}
	return cell{date: day.Truncate(date), slot: resolved, lane: lane, trainerID: trainerID}, nil
}

func (s *service) checkScheduled(ctx context.Context, date time.Time, slot, trainerID string) error {
	scheduled, err := s.trainers.Scheduled(ctx, date, slot)
	if err != nil {
		return err
	}
	for _, t := range scheduled {
		if t.ID == trainerID {
			return nil
		}
	}
	return ErrTrainerNotScheduled
}

// checkCell runs the closed, lane and trainer checks for c. It must be called
// inside a transaction after the cell lock is held.
func (s *service) checkCell(ctx context.Context, c cell, excludeID string) error {
	closed, err := s.closures.IsClosed(ctx, c.date, c.slot)
	if err != nil {
		return err
	}
	if closed {
		return ErrSlotClosed
	}

	taken, err := s.repo.LaneTaken(ctx, c.date, c.slot, c.lane, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrLaneTaken
	}

	if c.trainerID != nil {
		taken, err := s.repo.TrainerTaken(ctx, c.date, c.slot, *c.trainerID, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return ErrTrainerTaken
		}
	}
	return nil
}

func (s *service) Reserve(ctx context.Context, req ReserveRequest) (*Booking, error) {
	identity, err := s.identities.Identity(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !identity.MayReserve() {
		return nil, ErrUnauthorized
	}

	c, err := s.resolve(ctx, req.Date, req.Time, req.Lane, req.TrainerID, nil)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		OwnerID:   req.OwnerID,
		GroupID:   req.GroupID,
		Date:      c.date,
		Time:      c.slot,
		Lane:      c.lane,
		TrainerID: c.trainerID,
	}

	var created *Booking
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockCell(ctx, c.date, c.slot); err != nil {
			return err
		}
		if err := s.checkCell(ctx, c, ""); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		created, err = s.repo.GetByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Group cells are invalidated by the group once its transaction commits.
	if !b.InGroup() {
		s.invalidator.InvalidateDates(ctx, c.date)
	}
	return created, nil
}

func mayManage(b *Booking, actor user.Identity) bool {
	return actor.IsAdmin() || b.OwnerID == actor.UserID
}

func (s *service) Amend(ctx context.Context, id string, req AmendRequest, actor user.Identity) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mayManage(b, actor) {
		return nil, ErrPermissionDenied
	}
	if b.InGroup() {
		return nil, ErrGroupManaged
	}

	c, err := s.resolve(ctx, req.Date, req.Time, req.Lane, req.TrainerID, b.TrainerID)
	if err != nil {
		return nil, err
	}

	oldDate := b.Date
	b.Date, b.Time, b.Lane, b.TrainerID = c.date, c.slot, c.lane, c.trainerID

	var updated *Booking
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockCell(ctx, c.date, c.slot); err != nil {
			return err
		}
		if err := s.checkCell(ctx, c, b.ID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		updated, err = s.repo.GetByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateDates(ctx, oldDate, c.date)
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, id string, actor user.Identity) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if !mayManage(b, actor) {
		return ErrPermissionDenied
	}
	// Administrators may remove a single cell of a group; owners edit the group.
	if b.InGroup() && !actor.IsAdmin() {
		return ErrGroupManaged
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed {
		s.invalidator.InvalidateDates(ctx, b.Date)
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListForOwner(ctx context.Context, ownerID string) ([]*Booking, error) {
	bookings, _, err := s.repo.List(ctx, Filter{OwnerID: ownerID})
	return bookings, err
}

func (s *service) ListForDate(ctx context.Context, date time.Time) ([]*Booking, error) {
	d := day.Truncate(date)
	bookings, _, err := s.repo.List(ctx, Filter{Date: &d})
	return bookings, err
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, inventory.ErrInvalidRange
	}
	return s.repo.List(ctx, filter)
}

func (s *service) DeleteByGroup(ctx context.Context, groupID string) (int, error) {
	return s.repo.DeleteByGroup(ctx, groupID)
}
