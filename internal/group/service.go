package group

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/db"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

// Shape is the requested cross product of a group. Either Times or a
// Start..End slot range selects the time slots.
type Shape struct {
	Date  time.Time
	Times []string
	Start string
	End   string
	Lanes []int
}

type CreateRequest struct {
	OwnerID string
	Shape
}

type Service interface {
	// Create books every (time, lane) pair of the shape, or nothing at all.
	Create(ctx context.Context, req CreateRequest) (*Group, error)
	// Update replaces the group's cells. On failure the previous cells stay.
	Update(ctx context.Context, id string, shape Shape, actor user.Identity) (*Group, error)
	// Delete removes the group and its cells. Unknown ids are not an error.
	Delete(ctx context.Context, id string, actor user.Identity) error
	GetByID(ctx context.Context, id string) (*Group, error)
	// ListForOwner lists ownerID's groups, or every group when ownerID is empty.
	ListForOwner(ctx context.Context, ownerID string) ([]*Group, error)
}

type service struct {
	repo        Repository
	tx          db.Transactor
	bookings    booking.Service
	identities  booking.Identities
	inventory   inventory.Service
	invalidator cache.Invalidator
}

func NewService(
	repo Repository,
	tx db.Transactor,
	bookings booking.Service,
	identities booking.Identities,
	inv inventory.Service,
	invalidator cache.Invalidator,
) Service {
	return &service{
		repo:        repo,
		tx:          tx,
		bookings:    bookings,
		identities:  identities,
		inventory:   inv,
		invalidator: invalidator,
	}
}

// normalize resolves the shape into sorted, de-duplicated slots and lanes.
func (s *service) normalize(ctx context.Context, shape Shape) (times []string, lanes []int, err error) {
	if len(shape.Times) == 0 && shape.Start != "" {
		times, err = s.inventory.SlotRange(ctx, shape.Start, cmp.Or(shape.End, shape.Start))
		if err != nil {
			return nil, nil, err
		}
	}
	for _, raw := range shape.Times {
		slot, err := s.inventory.ResolveTimeSlot(ctx, raw)
		if err != nil {
			return nil, nil, err
		}
		times = append(times, slot)
	}
	if len(times) == 0 {
		return nil, nil, ErrNoTimes
	}

	for _, lane := range shape.Lanes {
		if lane < 1 {
			return nil, nil, inventory.ErrInvalidLane
		}
	}
	lanes = slices.Clone(shape.Lanes)
	if len(lanes) == 0 {
		return nil, nil, ErrNoLanes
	}

	slices.Sort(times)
	slices.Sort(lanes)
	return slices.Compact(times), slices.Compact(lanes), nil
}

// book reserves every cell for the group. It must run inside a transaction.
func (s *service) book(ctx context.Context, g *Group, times []string, lanes []int) error {
	for _, t := range times {
		for _, lane := range lanes {
			_, err := s.bookings.Reserve(ctx, booking.ReserveRequest{
				OwnerID: g.OwnerID,
				GroupID: &g.ID,
				Date:    g.Date,
				Time:    t,
				Lane:    lane,
			})
			if err != nil {
				return &CellError{Time: t, Lane: lane, Err: err}
			}
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Group, error) {
	identity, err := s.identities.Identity(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, booking.ErrUnauthorized
		}
		return nil, err
	}
	if identity.Role != user.RoleOrg && !identity.IsAdmin() {
		return nil, ErrOrgOnly
	}

	times, lanes, err := s.normalize(ctx, req.Shape)
	if err != nil {
		return nil, err
	}

	g := &Group{OwnerID: req.OwnerID, Date: day.Truncate(req.Date)}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, g); err != nil {
			return err
		}
		return s.book(ctx, g, times, lanes)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("group_id", g.ID).Int("cells", len(times)*len(lanes)).Msg("group booked")
	s.invalidator.InvalidateDates(ctx, g.Date)
	return s.GetByID(ctx, g.ID)
}

func mayManage(g *Group, actor user.Identity) bool {
	return actor.IsAdmin() || g.OwnerID == actor.UserID
}

func (s *service) Update(ctx context.Context, id string, shape Shape, actor user.Identity) (*Group, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mayManage(g, actor) {
		return nil, ErrPermissionDenied
	}

	times, lanes, err := s.normalize(ctx, shape)
	if err != nil {
		return nil, err
	}

	oldDate := g.Date
	g.Date = day.Truncate(shape.Date)

	// Dropping the old cells first lets the new shape overlap them; a
	// failure rolls the deletion back with everything else.
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.bookings.DeleteByGroup(ctx, g.ID); err != nil {
			return err
		}
		if err := s.repo.UpdateDate(ctx, g.ID, g.Date); err != nil {
			return err
		}
		return s.book(ctx, g, times, lanes)
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateDates(ctx, oldDate, g.Date)
	return s.GetByID(ctx, g.ID)
}

func (s *service) Delete(ctx context.Context, id string, actor user.Identity) error {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if !mayManage(g, actor) {
		return ErrPermissionDenied
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.bookings.DeleteByGroup(ctx, g.ID); err != nil {
			return err
		}
		_, err := s.repo.Delete(ctx, g.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.invalidator.InvalidateDates(ctx, g.Date)
	return nil
}

// fill derives the group's times and lanes from its cells.
func fill(g *Group, cells []*booking.Booking) {
	g.Times, g.Lanes = []string{}, []int{}
	for _, b := range cells {
		g.Times = append(g.Times, b.Time)
		g.Lanes = append(g.Lanes, b.Lane)
	}
	slices.Sort(g.Times)
	slices.Sort(g.Lanes)
	g.Times = slices.Compact(g.Times)
	g.Lanes = slices.Compact(g.Lanes)
}

func (s *service) GetByID(ctx context.Context, id string) (*Group, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cells, _, err := s.bookings.List(ctx, booking.Filter{GroupID: g.ID})
	if err != nil {
		return nil, err
	}
	fill(g, cells)
	return g, nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID string) ([]*Group, error) {
	groups, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return groups, nil
	}

	bookings, _, err := s.bookings.List(ctx, booking.Filter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	cells := make(map[string][]*booking.Booking, len(groups))
	for _, b := range bookings {
		if b.GroupID != nil {
			cells[*b.GroupID] = append(cells[*b.GroupID], b)
		}
	}
	for _, g := range groups {
		fill(g, cells[g.ID])
	}
	return groups, nil
}
