// Package grouptest provides an in-memory group.Repository.
package grouptest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/pool-booking-backend/internal/group"
)

// Repository keeps groups in a map. HasCells tells DeleteEmpty whether a
// group still has bookings; without it no group counts as empty.
type Repository struct {
	mu     sync.Mutex
	groups map[string]*group.Group

	HasCells func(groupID string) bool
}

func NewRepository() *Repository {
	return &Repository{groups: map[string]*group.Group{}}
}

// Count is the number of stored groups.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}

// Snapshot implements dbtest.Snapshotter.
func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	saved := make(map[string]group.Group, len(r.groups))
	for id, g := range r.groups {
		saved[id] = *g
	}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.groups = make(map[string]*group.Group, len(saved))
		for id, g := range saved {
			r.groups[id] = &g
		}
	}
}

func (r *Repository) Create(_ context.Context, g *group.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	g.ID = uuid.NewString()
	g.CreatedAt, g.UpdatedAt = now, now
	cp := *g
	r.groups[g.ID] = &cp
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*group.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, group.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *Repository) List(_ context.Context, ownerID string) ([]*group.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*group.Group
	for _, g := range r.groups {
		if ownerID != "" && g.OwnerID != ownerID {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *group.Group) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *Repository) UpdateDate(_ context.Context, id string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return group.ErrNotFound
	}
	g.Date = date
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[id]; !ok {
		return false, nil
	}
	delete(r.groups, id)
	return true, nil
}

func (r *Repository) DeleteEmpty(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.HasCells == nil {
		return 0, nil
	}
	n := 0
	for id := range r.groups {
		if !r.HasCells(id) {
			delete(r.groups, id)
			n++
		}
	}
	return n, nil
}
