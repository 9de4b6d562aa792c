// Package trainertest provides an in-memory trainer.Repository.
package trainertest

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
)

type availabilityKey struct {
	trainerID string
	day       int
	slot      string
}

// Repository keeps trainers and their weekly schedule in memory.
// OnDelete runs after a trainer is removed, standing in for ON DELETE SET NULL.
type Repository struct {
	mu           sync.Mutex
	trainers     map[string]*trainer.Trainer
	availability map[string]*trainer.Availability

	OnDelete func(trainerID string)
}

func NewRepository() *Repository {
	return &Repository{
		trainers:     map[string]*trainer.Trainer{},
		availability: map[string]*trainer.Availability{},
	}
}

// AvailabilityCount is the number of stored schedule entries.
func (r *Repository) AvailabilityCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.availability)
}

func (r *Repository) Create(_ context.Context, t *trainer.Trainer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.trainers {
		if existing.FullName() == t.FullName() {
			return trainer.ErrExists
		}
	}
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	cp := *t
	r.trainers[t.ID] = &cp
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*trainer.Trainer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trainers[id]
	if !ok {
		return nil, trainer.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *Repository) GetByFullName(_ context.Context, fullName string) (*trainer.Trainer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trainers {
		if t.FullName() == fullName {
			cp := *t
			return &cp, nil
		}
	}
	return nil, trainer.ErrNotFound
}

func (r *Repository) List(context.Context) ([]*trainer.Trainer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*trainer.Trainer, 0, len(r.trainers))
	for _, t := range r.trainers {
		cp := *t
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *trainer.Trainer) int { return cmp.Compare(a.FullName(), b.FullName()) })
	return out, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.trainers[id]; !ok {
		r.mu.Unlock()
		return trainer.ErrNotFound
	}
	delete(r.trainers, id)
	for aid, a := range r.availability {
		if a.TrainerID == id {
			delete(r.availability, aid)
		}
	}
	r.mu.Unlock()

	if r.OnDelete != nil {
		r.OnDelete(id)
	}
	return nil
}

func (r *Repository) CreateAvailability(_ context.Context, a *trainer.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trainers[a.TrainerID]; !ok {
		return trainer.ErrNotFound
	}
	key := availabilityKey{a.TrainerID, a.DayOfWeek, a.Time}
	for _, existing := range r.availability {
		if (availabilityKey{existing.TrainerID, existing.DayOfWeek, existing.Time}) == key {
			return trainer.ErrAvailabilityExists
		}
	}
	a.ID = uuid.NewString()
	cp := *a
	r.availability[a.ID] = &cp
	return nil
}

func (r *Repository) DeleteAvailability(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.availability[id]; !ok {
		return trainer.ErrAvailabilityNotFound
	}
	delete(r.availability, id)
	return nil
}

func (r *Repository) ListAvailability(_ context.Context, trainerID string) ([]*trainer.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*trainer.Availability
	for _, a := range r.availability {
		if trainerID != "" && a.TrainerID != trainerID {
			continue
		}
		cp := *a
		cp.TrainerName = r.trainers[a.TrainerID].FullName()
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *trainer.Availability) int {
		return cmp.Or(
			cmp.Compare(a.TrainerName, b.TrainerName),
			cmp.Compare(a.DayOfWeek, b.DayOfWeek),
			cmp.Compare(a.Time, b.Time),
		)
	})
	return out, nil
}

func (r *Repository) Scheduled(_ context.Context, dayOfWeek int, slot string) ([]trainer.Brief, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trainer.Brief
	for _, a := range r.availability {
		if a.DayOfWeek == dayOfWeek && a.Time == slot {
			out = append(out, trainer.Brief{ID: a.TrainerID, Name: r.trainers[a.TrainerID].FullName()})
		}
	}
	slices.SortFunc(out, func(a, b trainer.Brief) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}
