// Package bookingtest provides an in-memory booking.Repository and the
// collaborator stubs booking.Service needs.
package bookingtest

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

// Repository enforces the lane and trainer uniqueness the database enforces.
type Repository struct {
	mu       sync.Mutex
	bookings map[string]*booking.Booking

	// BeforeCreate runs before every insert, outside the lock.
	// Tests use it to slip a competing booking in after the pre-checks.
	BeforeCreate func(b *booking.Booking)
	// Names resolves owner names; unknown owners are named by id.
	Names map[string]string
}

func NewRepository() *Repository {
	return &Repository{bookings: map[string]*booking.Booking{}, Names: map[string]string{}}
}

// Count is the number of stored bookings.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// Snapshot implements dbtest.Snapshotter.
func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	saved := make(map[string]booking.Booking, len(r.bookings))
	for id, b := range r.bookings {
		saved[id] = *b
	}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.bookings = make(map[string]*booking.Booking, len(saved))
		for id, b := range saved {
			r.bookings[id] = &b
		}
	}
}

// Insert stores b directly, bypassing every check.
func (r *Repository) Insert(b booking.Booking) *booking.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	r.bookings[b.ID] = &b
	return &b
}

func (r *Repository) conflict(b *booking.Booking) error {
	for _, other := range r.bookings {
		if other.ID == b.ID || !other.Date.Equal(b.Date) || other.Time != b.Time {
			continue
		}
		if other.Lane == b.Lane {
			return booking.ErrLaneTaken
		}
		if b.TrainerID != nil && other.TrainerID != nil && *other.TrainerID == *b.TrainerID {
			return booking.ErrTrainerTaken
		}
	}
	return nil
}

func (r *Repository) Create(_ context.Context, b *booking.Booking) error {
	if r.BeforeCreate != nil {
		r.BeforeCreate(b)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(b); err != nil {
		return err
	}
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt, b.UpdatedAt = now, now
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *Repository) view(b *booking.Booking) *booking.Booking {
	cp := *b
	cp.OwnerName = cmp.Or(r.Names[b.OwnerID], b.OwnerID)
	return &cp
}

func (r *Repository) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return r.view(b), nil
}

func (r *Repository) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*booking.Booking
	for _, id := range slices.Sorted(maps.Keys(r.bookings)) {
		b := r.bookings[id]
		switch {
		case filter.OwnerID != "" && b.OwnerID != filter.OwnerID:
			continue
		case filter.GroupID != "" && (b.GroupID == nil || *b.GroupID != filter.GroupID):
			continue
		case filter.Date != nil && !b.Date.Equal(*filter.Date):
			continue
		case filter.From != nil && b.Date.Before(*filter.From):
			continue
		case filter.To != nil && b.Date.After(*filter.To):
			continue
		}
		out = append(out, r.view(b))
	}
	slices.SortStableFunc(out, func(a, b *booking.Booking) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.Time, b.Time), cmp.Compare(a.Lane, b.Lane))
	})

	total := len(out)
	if filter.PageSize > 0 {
		start := min(max(filter.Page-1, 0)*filter.PageSize, total)
		out = out[start:min(start+filter.PageSize, total)]
	}
	return out, total, nil
}

func (r *Repository) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.bookings[b.ID]
	if !ok {
		return booking.ErrNotFound
	}
	if err := r.conflict(b); err != nil {
		return err
	}
	existing.Date, existing.Time, existing.Lane, existing.TrainerID = b.Date, b.Time, b.Lane, b.TrainerID
	existing.UpdatedAt = time.Now().UTC()
	b.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *Repository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return false, nil
	}
	delete(r.bookings, id)
	return true, nil
}

func (r *Repository) DeleteByGroup(_ context.Context, groupID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, b := range r.bookings {
		if b.GroupID != nil && *b.GroupID == groupID {
			delete(r.bookings, id)
			n++
		}
	}
	return n, nil
}

// DeleteWhere removes the bookings matching fn. It stands in for database cascades.
func (r *Repository) DeleteWhere(fn func(b *booking.Booking) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maps.DeleteFunc(r.bookings, func(_ string, b *booking.Booking) bool { return fn(b) })
}

func (r *Repository) LaneTaken(_ context.Context, date time.Time, slot string, lane int, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID != excludeID && b.Date.Equal(date) && b.Time == slot && b.Lane == lane {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) TrainerTaken(_ context.Context, date time.Time, slot, trainerID, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID != excludeID && b.Date.Equal(date) && b.Time == slot && b.TrainerID != nil && *b.TrainerID == trainerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) LockCell(context.Context, time.Time, string) error {
	return nil
}

// Identities is a fixed set of accounts.
type Identities map[string]user.Identity

// Add registers an account and returns its id.
func (i Identities) Add(role user.Role, confirmed bool) string {
	id := uuid.NewString()
	i[id] = user.Identity{UserID: id, Role: role, IsConfirmed: confirmed}
	return id
}

func (i Identities) Identity(_ context.Context, id string) (user.Identity, error) {
	identity, ok := i[id]
	if !ok {
		return user.Identity{}, user.ErrNotFound
	}
	return identity, nil
}
