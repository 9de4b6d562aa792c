// Package closedslottest provides an in-memory closedslot.Repository.
package closedslottest

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/pool-booking-backend/internal/closedslot"
)

type Repository struct {
	mu    sync.Mutex
	slots map[string]*closedslot.ClosedSlot
}

func NewRepository() *Repository {
	return &Repository{slots: map[string]*closedslot.ClosedSlot{}}
}

// Count is the number of stored closures.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

func (r *Repository) Create(_ context.Context, cs *closedslot.ClosedSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.slots {
		if existing.Date.Equal(cs.Date) && existing.Time == cs.Time {
			return closedslot.ErrAlreadyClosed
		}
	}
	cs.ID = uuid.NewString()
	cs.CreatedAt = time.Now().UTC()
	cp := *cs
	r.slots[cs.ID] = &cp
	return nil
}

func (r *Repository) Delete(_ context.Context, id string) (*closedslot.ClosedSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	delete(r.slots, id)
	return cs, nil
}

func (r *Repository) Exists(_ context.Context, date time.Time, slot string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cs := range r.slots {
		if cs.Date.Equal(date) && cs.Time == slot {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) ListBetween(_ context.Context, from, to time.Time) ([]*closedslot.ClosedSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*closedslot.ClosedSlot
	for _, cs := range r.slots {
		if cs.Date.Before(from) || cs.Date.After(to) {
			continue
		}
		cp := *cs
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *closedslot.ClosedSlot) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.Time, b.Time))
	})
	return out, nil
}
