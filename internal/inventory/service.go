package inventory

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/pool-booking-backend/internal/db"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
)

// Dependents hold records that lose their meaning once a lane or time slot
// cascade has removed everything they point at. DeleteEmpty drops those
// records and reports how many went.
type Dependents interface {
	DeleteEmpty(ctx context.Context) (int, error)
}

type Service interface {
	ListLanes(ctx context.Context) ([]*Lane, error)
	LaneNumbers(ctx context.Context) ([]int, error)
	GetLane(ctx context.Context, number int) (*Lane, error)
	AddLane(ctx context.Context, number int, name string) (*Lane, error)
	RemoveLane(ctx context.Context, number int) error

	ListTimeSlots(ctx context.Context) ([]string, error)
	// ResolveTimeSlot normalizes raw and checks that the slot is registered.
	ResolveTimeSlot(ctx context.Context, raw string) (string, error)
	AddTimeSlot(ctx context.Context, raw string) (string, error)
	RemoveTimeSlot(ctx context.Context, raw string) error
	// SlotRange returns the registered slots from start to end inclusive.
	SlotRange(ctx context.Context, start, end string) ([]string, error)
	// SlotRangeByIndex is SlotRange addressed by positions in ListTimeSlots.
	SlotRangeByIndex(ctx context.Context, start, end int) ([]string, error)
}

type service struct {
	repo        Repository
	tx          db.Transactor
	invalidator cache.Invalidator
	dependents  []Dependents
}

func NewService(repo Repository, tx db.Transactor, invalidator cache.Invalidator, dependents ...Dependents) Service {
	return &service{repo: repo, tx: tx, invalidator: invalidator, dependents: dependents}
}

// cascade runs remove and sweeps the dependents in one transaction.
func (s *service) cascade(ctx context.Context, remove func(ctx context.Context) error) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := remove(ctx); err != nil {
			return err
		}
		for _, d := range s.dependents {
			n, err := d.DeleteEmpty(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int("count", n).Msg("removed records left empty by cascade")
			}
		}
		return nil
	})
}

func (s *service) ListLanes(ctx context.Context) ([]*Lane, error) {
	return s.repo.ListLanes(ctx)
}

func (s *service) LaneNumbers(ctx context.Context) ([]int, error) {
	lanes, err := s.repo.ListLanes(ctx)
	if err != nil {
		return nil, err
	}
	numbers := make([]int, len(lanes))
	for i, l := range lanes {
		numbers[i] = l.Number
	}
	return numbers, nil
}

func (s *service) GetLane(ctx context.Context, number int) (*Lane, error) {
	if number <= 0 {
		return nil, ErrLaneNotFound
	}
	return s.repo.GetLane(ctx, number)
}

func (s *service) AddLane(ctx context.Context, number int, name string) (*Lane, error) {
	if number <= 0 {
		return nil, ErrInvalidLane
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	lane := &Lane{Number: number, Name: name}
	if err := s.repo.CreateLane(ctx, lane); err != nil {
		return nil, err
	}
	s.invalidator.InvalidateAll(ctx)
	return lane, nil
}

func (s *service) RemoveLane(ctx context.Context, number int) error {
	err := s.cascade(ctx, func(ctx context.Context) error {
		return s.repo.DeleteLane(ctx, number)
	})
	if err != nil {
		return err
	}
	log.Info().Int("lane", number).Msg("lane removed with its bookings")
	s.invalidator.InvalidateAll(ctx)
	return nil
}

func (s *service) ListTimeSlots(ctx context.Context) ([]string, error) {
	return s.repo.ListTimeSlots(ctx)
}

func (s *service) ResolveTimeSlot(ctx context.Context, raw string) (string, error) {
	slot, err := NormalizeSlot(raw)
	if err != nil {
		return "", err
	}
	ok, err := s.repo.TimeSlotExists(ctx, slot)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrTimeSlotNotFound
	}
	return slot, nil
}

func (s *service) AddTimeSlot(ctx context.Context, raw string) (string, error) {
	slot, err := NormalizeSlot(raw)
	if err != nil {
		return "", err
	}
	if err := s.repo.CreateTimeSlot(ctx, slot); err != nil {
		return "", err
	}
	s.invalidator.InvalidateAll(ctx)
	return slot, nil
}

func (s *service) RemoveTimeSlot(ctx context.Context, raw string) error {
	slot, err := NormalizeSlot(raw)
	if err != nil {
		return err
	}
	err = s.cascade(ctx, func(ctx context.Context) error {
		return s.repo.DeleteTimeSlot(ctx, slot)
	})
	if err != nil {
		return err
	}
	log.Info().Str("slot", slot).Msg("time slot removed with its dependents")
	s.invalidator.InvalidateAll(ctx)
	return nil
}

func (s *service) SlotRange(ctx context.Context, start, end string) ([]string, error) {
	startSlot, err := NormalizeSlot(start)
	if err != nil {
		return nil, err
	}
	endSlot, err := NormalizeSlot(end)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.ListTimeSlots(ctx)
	if err != nil {
		return nil, err
	}
	return SlotsBetween(slots, startSlot, endSlot)
}

func (s *service) SlotRangeByIndex(ctx context.Context, start, end int) ([]string, error) {
	slots, err := s.repo.ListTimeSlots(ctx)
	if err != nil {
		return nil, err
	}
	return SlotsByIndex(slots, start, end)
}
