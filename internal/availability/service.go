package availability

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/closedslot"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
)

type Bookings interface {
	ListForDate(ctx context.Context, date time.Time) ([]*booking.Booking, error)
}

type Closures interface {
	ListForDate(ctx context.Context, date time.Time) ([]*closedslot.ClosedSlot, error)
}

type Trainers interface {
	Scheduled(ctx context.Context, date time.Time, slot string) ([]trainer.Brief, error)
}

type Service interface {
	// FreeLanes lists the unbooked lanes of a cell; a closed cell has none.
	FreeLanes(ctx context.Context, date time.Time, slot string) ([]int, error)
	// FreeTrainers lists trainers scheduled for the cell's weekday who are not booked in it.
	FreeTrainers(ctx context.Context, date time.Time, slot string) ([]trainer.Brief, error)
	// Week classifies every cell of the week containing date for viewerID.
	Week(ctx context.Context, viewerID string, date time.Time) (*Week, error)
}

type service struct {
	inventory inventory.Service
	bookings  Bookings
	closures  Closures
	trainers  Trainers
	cache     cache.Cache
	ttl       time.Duration
}

func NewService(inv inventory.Service, bookings Bookings, closures Closures, trainers Trainers, c cache.Cache, ttl time.Duration) Service {
	return &service{
		inventory: inv,
		bookings:  bookings,
		closures:  closures,
		trainers:  trainers,
		cache:     c,
		ttl:       ttl,
	}
}

// dayState loads the occupancy of date, from the cache when possible.
func (s *service) dayState(ctx context.Context, date time.Time) (*DayState, error) {
	key := cache.DayKey(date)

	var state DayState
	err := s.cache.Get(ctx, key, &state)
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Str("key", key).Msg("availability cache read failed")
	}

	bookings, err := s.bookings.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	closed, err := s.closures.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	state = DayState{Date: day.Format(date), Closed: []string{}, Occupied: []Occupancy{}}
	for _, cs := range closed {
		state.Closed = append(state.Closed, cs.Time)
	}
	for _, b := range bookings {
		o := Occupancy{Time: b.Time, Lane: b.Lane, OwnerID: b.OwnerID}
		if b.TrainerID != nil {
			o.TrainerID = *b.TrainerID
		}
		state.Occupied = append(state.Occupied, o)
	}

	if err := s.cache.Save(ctx, key, state, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("availability cache write failed")
	}
	return &state, nil
}

func freeLanes(all []int, state *DayState, slot string) []int {
	if state.closed(slot) {
		return []int{}
	}
	taken := state.at(slot)
	free := make([]int, 0, len(all))
	for _, lane := range all {
		if !slices.ContainsFunc(taken, func(o Occupancy) bool { return o.Lane == lane }) {
			free = append(free, lane)
		}
	}
	return free
}

func (s *service) FreeLanes(ctx context.Context, date time.Time, slot string) ([]int, error) {
	date = day.Truncate(date)
	slot, err := s.inventory.ResolveTimeSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	lanes, err := s.inventory.LaneNumbers(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.dayState(ctx, date)
	if err != nil {
		return nil, err
	}
	return freeLanes(lanes, state, slot), nil
}

func (s *service) FreeTrainers(ctx context.Context, date time.Time, slot string) ([]trainer.Brief, error) {
	date = day.Truncate(date)
	slot, err := s.inventory.ResolveTimeSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.trainers.Scheduled(ctx, date, slot)
	if err != nil {
		return nil, err
	}
	state, err := s.dayState(ctx, date)
	if err != nil {
		return nil, err
	}

	taken := state.at(slot)
	free := make([]trainer.Brief, 0, len(scheduled))
	for _, t := range scheduled {
		if !slices.ContainsFunc(taken, func(o Occupancy) bool { return o.TrainerID == t.ID }) {
			free = append(free, t)
		}
	}
	return free, nil
}

func (s *service) Week(ctx context.Context, viewerID string, date time.Time) (*Week, error) {
	slots, err := s.inventory.ListTimeSlots(ctx)
	if err != nil {
		return nil, err
	}
	lanes, err := s.inventory.LaneNumbers(ctx)
	if err != nil {
		return nil, err
	}

	dates := day.Week(date)
	states := make([]*DayState, len(dates))
	for i, d := range dates {
		if states[i], err = s.dayState(ctx, d); err != nil {
			return nil, err
		}
	}

	w := &Week{Dates: dates, Times: slots, Lanes: lanes, Cells: make([][]Cell, len(slots))}
	for i, slot := range slots {
		w.Cells[i] = make([]Cell, len(dates))
		for j, d := range dates {
			w.Cells[i][j] = classify(d, slot, lanes, states[j], viewerID)
		}
	}
	return w, nil
}

// classify lets the viewer's own lanes win over the cell's availability;
// the free lane list is computed the same way either way.
func classify(date time.Time, slot string, lanes []int, state *DayState, viewerID string) Cell {
	c := Cell{
		Date:      date,
		Time:      slot,
		Closed:    state.closed(slot),
		FreeLanes: freeLanes(lanes, state, slot),
		MyLanes:   []int{},
	}
	for _, o := range state.at(slot) {
		if viewerID != "" && o.OwnerID == viewerID {
			c.MyLanes = append(c.MyLanes, o.Lane)
		}
	}
	slices.Sort(c.MyLanes)

	switch {
	case len(c.MyLanes) > 0:
		c.Status = StatusMine
	case c.Closed || len(c.FreeLanes) == 0:
		c.Status = StatusUnavailable
	default:
		c.Status = StatusFree
	}
	return c
}
