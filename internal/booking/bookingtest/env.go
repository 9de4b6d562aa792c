package bookingtest

import (
	"context"
	"sync"
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/closedslot"
	"github.com/nekogravitycat/pool-booking-backend/internal/closedslot/closedslottest"
	"github.com/nekogravitycat/pool-booking-backend/internal/db/dbtest"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory/inventorytest"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer/trainertest"
)

// Slots are the time slots of an Env; it also has Lanes lanes.
var Slots = []string{"09:00", "10:00", "11:00"}

const Lanes = 4

// Env is a booking.Service wired over in-memory stores.
type Env struct {
	Bookings      *Repository
	Identities    Identities
	Inventory     inventory.Service
	Trainers      *trainertest.Repository
	TrainerSvc    trainer.Service
	Closures      closedslot.Service
	Tx            *dbtest.Transactor
	Invalidations *Recorder
	Service       booking.Service
}

// NewEnv wires the services. Removing a lane or time slot from Inventory
// deletes the bookings on it, as the database cascade does, and then sweeps
// dependents.
func NewEnv(dependents ...inventory.Dependents) *Env {
	e := &Env{
		Bookings:      NewRepository(),
		Identities:    Identities{},
		Trainers:      trainertest.NewRepository(),
		Invalidations: &Recorder{},
	}
	e.Tx = dbtest.NewTransactor(e.Bookings)

	inv := inventorytest.NewRepository(Lanes, Slots...)
	inv.OnDeleteLane = func(number int) {
		e.Bookings.DeleteWhere(func(b *booking.Booking) bool { return b.Lane == number })
	}
	inv.OnDeleteTimeSlot = func(slot string) {
		e.Bookings.DeleteWhere(func(b *booking.Booking) bool { return b.Time == slot })
	}
	e.Inventory = inventory.NewService(inv, e.Tx, e.Invalidations, dependents...)
	e.TrainerSvc = trainer.NewService(e.Trainers, e.Inventory, e.Invalidations)
	e.Closures = closedslot.NewService(closedslottest.NewRepository(), dbtest.NewTransactor(), e.Inventory, e.Invalidations)
	e.Service = booking.NewService(e.Bookings, e.Tx, e.Identities, e.Inventory, e.TrainerSvc, e.Closures, e.Invalidations)
	return e
}

// AddTrainer stores a trainer and returns its id.
func (e *Env) AddTrainer(lastName, firstName string) string {
	t := &trainer.Trainer{LastName: lastName, FirstName: firstName, Age: 30}
	if err := e.Trainers.Create(context.Background(), t); err != nil {
		panic(err)
	}
	return t.ID
}

// AddScheduledTrainer stores a trainer who works every slot of every weekday.
func (e *Env) AddScheduledTrainer(lastName, firstName string) string {
	id := e.AddTrainer(lastName, firstName)
	for dow := 0; dow < 7; dow++ {
		if _, err := e.TrainerSvc.AddAvailabilityRange(context.Background(), id, dow, Slots[0], Slots[len(Slots)-1]); err != nil {
			panic(err)
		}
	}
	return id
}

// Recorder is a cache.Invalidator that remembers what it was asked to drop.
type Recorder struct {
	mu    sync.Mutex
	dates []time.Time
	all   int
}

var _ cache.Invalidator = (*Recorder)(nil)

func (r *Recorder) InvalidateDates(_ context.Context, dates ...time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, dates...)
}

func (r *Recorder) InvalidateAll(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all++
}

// Dates returns the invalidated dates in call order.
func (r *Recorder) Dates() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Time(nil), r.dates...)
}

// All is the number of wholesale invalidations.
func (r *Recorder) All() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates, r.all = nil, 0
}
