package closedslot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/pool-booking-backend/internal/db"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
)

type Service interface {
	Close(ctx context.Context, date time.Time, slot, comment string) (*ClosedSlot, error)
	// CloseRange closes every slot from start to end inclusive on one date.
	// Slots that are already closed are skipped; Applied counts the new closures.
	CloseRange(ctx context.Context, date time.Time, start, end, comment string) (inventory.RangeResult, error)
	// Reopen deletes a closure. Unknown ids are not an error.
	Reopen(ctx context.Context, id string) error
	IsClosed(ctx context.Context, date time.Time, slot string) (bool, error)
	ListForDate(ctx context.Context, date time.Time) ([]*ClosedSlot, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*ClosedSlot, error)
}

type service struct {
	repo        Repository
	tx          db.Transactor
	inventory   inventory.Service
	invalidator cache.Invalidator
}

func NewService(repo Repository, tx db.Transactor, inv inventory.Service, invalidator cache.Invalidator) Service {
	return &service{repo: repo, tx: tx, inventory: inv, invalidator: invalidator}
}

func (s *service) create(ctx context.Context, date time.Time, slot, comment string) (*ClosedSlot, error) {
	cs := &ClosedSlot{Date: date, Time: slot, Comment: strings.TrimSpace(comment)}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, cs)
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *service) Close(ctx context.Context, date time.Time, slot, comment string) (*ClosedSlot, error) {
	date = day.Truncate(date)
	resolved, err := s.inventory.ResolveTimeSlot(ctx, slot)
	if err != nil {
		return nil, err
	}

	cs, err := s.create(ctx, date, resolved, comment)
	if err != nil {
		return nil, err
	}
	s.invalidator.InvalidateDates(ctx, date)
	return cs, nil
}

func (s *service) CloseRange(ctx context.Context, date time.Time, start, end, comment string) (inventory.RangeResult, error) {
	var res inventory.RangeResult
	date = day.Truncate(date)

	slots, err := s.inventory.SlotRange(ctx, start, end)
	if err != nil {
		return res, err
	}
	res.Requested = len(slots)
	defer func() {
		if res.Applied > 0 {
			s.invalidator.InvalidateDates(ctx, date)
		}
	}()

	for _, slot := range slots {
		_, err := s.create(ctx, date, slot, comment)
		switch {
		case err == nil:
			res.Applied++
		case errors.Is(err, ErrAlreadyClosed):
			log.Debug().Str("date", day.Format(date)).Str("slot", slot).Msg("slot already closed")
		default:
			return res, err
		}
	}
	return res, nil
}

func (s *service) Reopen(ctx context.Context, id string) error {
	cs, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if cs != nil {
		s.invalidator.InvalidateDates(ctx, cs.Date)
	}
	return nil
}

func (s *service) IsClosed(ctx context.Context, date time.Time, slot string) (bool, error) {
	normalized, err := inventory.NormalizeSlot(slot)
	if err != nil {
		return false, err
	}
	return s.repo.Exists(ctx, day.Truncate(date), normalized)
}

func (s *service) ListForDate(ctx context.Context, date time.Time) ([]*ClosedSlot, error) {
	d := day.Truncate(date)
	return s.repo.ListBetween(ctx, d, d)
}

func (s *service) ListBetween(ctx context.Context, from, to time.Time) ([]*ClosedSlot, error) {
	from, to = day.Truncate(from), day.Truncate(to)
	if from.After(to) {
		return nil, inventory.ErrInvalidRange
	}
	return s.repo.ListBetween(ctx, from, to)
}
