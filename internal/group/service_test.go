package group_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking/bookingtest"
	"github.com/nekogravitycat/pool-booking-backend/internal/group"
	"github.com/nekogravitycat/pool-booking-backend/internal/group/grouptest"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

var date = time.Date(2030, 3, 12, 0, 0, 0, 0, time.UTC)

type fixture struct {
	env    *bookingtest.Env
	groups *grouptest.Repository
	svc    group.Service
	org    string
}

func newFixture() *fixture {
	groups := grouptest.NewRepository()
	env := bookingtest.NewEnv(groups)
	env.Tx.Stores = append(env.Tx.Stores, groups)
	groups.HasCells = func(id string) bool {
		_, n, _ := env.Bookings.List(context.Background(), booking.Filter{GroupID: id})
		return n > 0
	}
	return &fixture{
		env:    env,
		groups: groups,
		svc:    group.NewService(groups, env.Tx, env.Service, env.Identities, env.Inventory, env.Invalidations),
		org:    env.Identities.Add(user.RoleOrg, false),
	}
}

func (f *fixture) reserve(t *testing.T, slot string, lane int) *booking.Booking {
	t.Helper()
	owner := f.env.Identities.Add(user.RoleUser, true)
	b, err := f.env.Service.Reserve(context.Background(), booking.ReserveRequest{OwnerID: owner, Date: date, Time: slot, Lane: lane})
	require.NoError(t, err)
	return b
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	g, err := f.svc.Create(ctx, group.CreateRequest{
		OwnerID: f.org,
		Shape:   group.Shape{Date: date, Times: []string{"10:00", "9:00", "10:00"}, Lanes: []int{2, 1, 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, g.Times)
	assert.Equal(t, []int{1, 2}, g.Lanes)
	assert.Equal(t, f.org, g.OwnerID)
	assert.Equal(t, 4, f.env.Bookings.Count())
	// One invalidation for the whole group, after commit.
	assert.Equal(t, []time.Time{date}, f.env.Invalidations.Dates())

	cells, err := f.env.Service.ListForOwner(ctx, f.org)
	require.NoError(t, err)
	for _, b := range cells {
		require.NotNil(t, b.GroupID)
		assert.Equal(t, g.ID, *b.GroupID)
	}

	t.Run("Slot range", func(t *testing.T) {
		g, err := f.svc.Create(ctx, group.CreateRequest{
			OwnerID: f.org,
			Shape:   group.Shape{Date: date.AddDate(0, 0, 1), Start: "09:00", End: "11:00", Lanes: []int{4}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "10:00", "11:00"}, g.Times)
		assert.Equal(t, []int{4}, g.Lanes)
	})
}

func TestService_Create_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	individual := f.env.Identities.Add(user.RoleUser, true)
	admin := f.env.Identities.Add(user.RoleAdmin, true)

	tests := []struct {
		name    string
		req     group.CreateRequest
		wantErr error
	}{
		{"Individual account", group.CreateRequest{OwnerID: individual, Shape: group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{1}}}, group.ErrOrgOnly},
		{"Unknown owner", group.CreateRequest{OwnerID: "ghost", Shape: group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{1}}}, booking.ErrUnauthorized},
		{"No times", group.CreateRequest{OwnerID: f.org, Shape: group.Shape{Date: date, Lanes: []int{1}}}, group.ErrNoTimes},
		{"No lanes", group.CreateRequest{OwnerID: f.org, Shape: group.Shape{Date: date, Times: []string{"09:00"}}}, group.ErrNoLanes},
		{"Bad lane", group.CreateRequest{OwnerID: f.org, Shape: group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{0}}}, inventory.ErrInvalidLane},
		{"Unknown slot", group.CreateRequest{OwnerID: f.org, Shape: group.Shape{Date: date, Times: []string{"07:00"}, Lanes: []int{1}}}, inventory.ErrTimeSlotNotFound},
		{"Reversed range", group.CreateRequest{OwnerID: f.org, Shape: group.Shape{Date: date, Start: "11:00", End: "09:00", Lanes: []int{1}}}, inventory.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, f.groups.Count())
	assert.Zero(t, f.env.Bookings.Count())

	t.Run("Admin may book a group", func(t *testing.T) {
		_, err := f.svc.Create(ctx, group.CreateRequest{OwnerID: admin, Shape: group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{1}}})
		assert.NoError(t, err)
	})
}

func TestService_Create_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.reserve(t, "10:00", 2)
	f.env.Invalidations.Reset()

	_, err := f.svc.Create(ctx, group.CreateRequest{
		OwnerID: f.org,
		Shape:   group.Shape{Date: date, Times: []string{"09:00", "10:00"}, Lanes: []int{1, 2}},
	})
	require.ErrorIs(t, err, booking.ErrLaneTaken)

	var cellErr *group.CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, "10:00", cellErr.Time)
	assert.Equal(t, 2, cellErr.Lane)

	assert.Equal(t, 1, f.env.Bookings.Count())
	assert.Zero(t, f.groups.Count())
	assert.Equal(t, 1, f.env.Tx.Rollbacks)
	// Cells booked before the failing one never reached the cache.
	assert.Empty(t, f.env.Invalidations.Dates())

	t.Run("Closed slot also aborts", func(t *testing.T) {
		_, err := f.env.Closures.Close(ctx, date, "11:00", "")
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, group.CreateRequest{
			OwnerID: f.org,
			Shape:   group.Shape{Date: date, Times: []string{"09:00", "11:00"}, Lanes: []int{3}},
		})
		assert.ErrorIs(t, err, booking.ErrSlotClosed)
		assert.Equal(t, 1, f.env.Bookings.Count())
		assert.Zero(t, f.groups.Count())
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := f.env.Identities[f.org]

	g, err := f.svc.Create(ctx, group.CreateRequest{
		OwnerID: f.org,
		Shape:   group.Shape{Date: date, Times: []string{"09:00", "10:00"}, Lanes: []int{1, 2}},
	})
	require.NoError(t, err)

	t.Run("Overlapping reshape", func(t *testing.T) {
		f.env.Invalidations.Reset()
		next := date.AddDate(0, 0, 1)
		got, err := f.svc.Update(ctx, g.ID, group.Shape{Date: next, Times: []string{"10:00", "11:00"}, Lanes: []int{2, 3}}, owner)
		require.NoError(t, err)
		assert.True(t, got.Date.Equal(next))
		assert.Equal(t, []string{"10:00", "11:00"}, got.Times)
		assert.Equal(t, []int{2, 3}, got.Lanes)
		assert.Equal(t, 4, f.env.Bookings.Count())
		assert.Contains(t, f.env.Invalidations.Dates(), date)
		assert.Contains(t, f.env.Invalidations.Dates(), next)

		// Back to the original date, overlapping the current cells.
		_, err = f.svc.Update(ctx, g.ID, group.Shape{Date: date, Times: []string{"09:00", "10:00"}, Lanes: []int{1, 2}}, owner)
		require.NoError(t, err)
	})

	t.Run("Failure keeps the previous cells", func(t *testing.T) {
		f.reserve(t, "11:00", 1)
		before := f.env.Bookings.Count()

		_, err := f.svc.Update(ctx, g.ID, group.Shape{Date: date, Times: []string{"11:00"}, Lanes: []int{1, 2}}, owner)
		assert.ErrorIs(t, err, booking.ErrLaneTaken)
		assert.Equal(t, before, f.env.Bookings.Count())

		got, err := f.svc.GetByID(ctx, g.ID)
		require.NoError(t, err)
		assert.True(t, got.Date.Equal(date))
		assert.Equal(t, []string{"09:00", "10:00"}, got.Times)
		assert.Equal(t, []int{1, 2}, got.Lanes)
	})

	t.Run("Other accounts may not edit", func(t *testing.T) {
		other := f.env.Identities.Add(user.RoleOrg, true)
		_, err := f.svc.Update(ctx, g.ID, group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{1}}, f.env.Identities[other])
		assert.ErrorIs(t, err, group.ErrPermissionDenied)
	})

	t.Run("Missing group", func(t *testing.T) {
		_, err := f.svc.Update(ctx, "missing", group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{1}}, owner)
		assert.ErrorIs(t, err, group.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := f.env.Identities[f.org]
	single := f.reserve(t, "11:00", 4)

	g, err := f.svc.Create(ctx, group.CreateRequest{
		OwnerID: f.org,
		Shape:   group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{1, 2, 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 4, f.env.Bookings.Count())

	stranger := f.env.Identities.Add(user.RoleUser, true)
	assert.ErrorIs(t, f.svc.Delete(ctx, g.ID, f.env.Identities[stranger]), group.ErrPermissionDenied)

	require.NoError(t, f.svc.Delete(ctx, g.ID, owner))
	assert.Zero(t, f.groups.Count())
	assert.Equal(t, 1, f.env.Bookings.Count())
	_, err = f.env.Service.GetByID(ctx, single.ID)
	assert.NoError(t, err)

	// Deleting again is a no-op.
	assert.NoError(t, f.svc.Delete(ctx, g.ID, owner))
}

func TestService_ListForOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	other := f.env.Identities.Add(user.RoleOrg, true)

	first, err := f.svc.Create(ctx, group.CreateRequest{OwnerID: f.org, Shape: group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{1}}})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, group.CreateRequest{OwnerID: f.org, Shape: group.Shape{Date: date.AddDate(0, 0, 1), Times: []string{"10:00", "11:00"}, Lanes: []int{2}}})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, group.CreateRequest{OwnerID: other, Shape: group.Shape{Date: date, Times: []string{"10:00"}, Lanes: []int{3}}})
	require.NoError(t, err)

	groups, err := f.svc.ListForOwner(ctx, f.org)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, second.ID, groups[0].ID)
	assert.Equal(t, []string{"10:00", "11:00"}, groups[0].Times)
	assert.Equal(t, first.ID, groups[1].ID)
	assert.Equal(t, []int{1}, groups[1].Lanes)

	all, err := f.svc.ListForOwner(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestService_InventoryRemovalDropsEmptyGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	narrow, err := f.svc.Create(ctx, group.CreateRequest{
		OwnerID: f.org,
		Shape:   group.Shape{Date: date, Times: []string{"09:00"}, Lanes: []int{3}},
	})
	require.NoError(t, err)
	wide, err := f.svc.Create(ctx, group.CreateRequest{
		OwnerID: f.org,
		Shape:   group.Shape{Date: date, Times: []string{"09:00", "10:00"}, Lanes: []int{1, 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.env.Inventory.RemoveLane(ctx, 3))
	_, err = f.svc.GetByID(ctx, narrow.ID)
	assert.ErrorIs(t, err, group.ErrNotFound)
	assert.Equal(t, 1, f.groups.Count())

	// Losing one slot leaves the rest of the group in place.
	require.NoError(t, f.env.Inventory.RemoveTimeSlot(ctx, "10:00"))
	got, err := f.svc.GetByID(ctx, wide.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, got.Times)
	assert.Equal(t, []int{1, 2}, got.Lanes)

	require.NoError(t, f.env.Inventory.RemoveTimeSlot(ctx, "09:00"))
	assert.Zero(t, f.groups.Count())
	assert.Zero(t, f.env.Bookings.Count())
}
