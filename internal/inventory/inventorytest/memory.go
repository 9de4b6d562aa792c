// Package inventorytest provides an in-memory inventory.Repository.
package inventorytest

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
)

// Repository keeps lanes and slots in maps. OnDeleteLane and OnDeleteTimeSlot
// let tests mirror the database cascades into other fakes.
type Repository struct {
	mu    sync.Mutex
	lanes map[int]string
	slots map[string]bool

	OnDeleteLane     func(number int)
	OnDeleteTimeSlot func(slot string)
}

// NewRepository creates a repository seeded with lanes 1..lanes and the given slots.
func NewRepository(lanes int, slots ...string) *Repository {
	r := &Repository{lanes: map[int]string{}, slots: map[string]bool{}}
	for n := 1; n <= lanes; n++ {
		r.lanes[n] = "Lane"
	}
	for _, s := range slots {
		r.slots[s] = true
	}
	return r
}

func (r *Repository) ListLanes(context.Context) ([]*inventory.Lane, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Lane, 0, len(r.lanes))
	for _, n := range slices.Sorted(maps.Keys(r.lanes)) {
		out = append(out, &inventory.Lane{Number: n, Name: r.lanes[n]})
	}
	return out, nil
}

func (r *Repository) GetLane(_ context.Context, number int) (*inventory.Lane, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.lanes[number]
	if !ok {
		return nil, inventory.ErrLaneNotFound
	}
	return &inventory.Lane{Number: number, Name: name}, nil
}

func (r *Repository) CreateLane(_ context.Context, lane *inventory.Lane) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lanes[lane.Number]; ok {
		return inventory.ErrLaneExists
	}
	r.lanes[lane.Number] = lane.Name
	return nil
}

func (r *Repository) DeleteLane(_ context.Context, number int) error {
	r.mu.Lock()
	if _, ok := r.lanes[number]; !ok {
		r.mu.Unlock()
		return inventory.ErrLaneNotFound
	}
	delete(r.lanes, number)
	r.mu.Unlock()

	if r.OnDeleteLane != nil {
		r.OnDeleteLane(number)
	}
	return nil
}

func (r *Repository) ListTimeSlots(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.slots)), nil
}

func (r *Repository) TimeSlotExists(_ context.Context, slot string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[slot], nil
}

func (r *Repository) CreateTimeSlot(_ context.Context, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slots[slot] {
		return inventory.ErrTimeSlotExists
	}
	r.slots[slot] = true
	return nil
}

func (r *Repository) DeleteTimeSlot(_ context.Context, slot string) error {
	r.mu.Lock()
	if !r.slots[slot] {
		r.mu.Unlock()
		return inventory.ErrTimeSlotNotFound
	}
	delete(r.slots, slot)
	r.mu.Unlock()

	if r.OnDeleteTimeSlot != nil {
		r.OnDeleteTimeSlot(slot)
	}
	return nil
}
