package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking/bookingtest"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

var date = time.Date(2030, 3, 11, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func reserve(t *testing.T, env *bookingtest.Env, owner, slot string, lane int) *booking.Booking {
	t.Helper()
	b, err := env.Service.Reserve(context.Background(), booking.ReserveRequest{
		OwnerID: owner, Date: date, Time: slot, Lane: lane,
	})
	require.NoError(t, err)
	return b
}

func TestService_Reserve(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	owner := env.Identities.Add(user.RoleUser, true)
	coach := env.AddScheduledTrainer("Petrov", "Ivan")

	b, err := env.Service.Reserve(ctx, booking.ReserveRequest{
		OwnerID: owner, Date: date.Add(10 * time.Hour), Time: "9:00", Lane: 2, TrainerID: &coach,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, owner, b.OwnerID)
	assert.True(t, b.Date.Equal(date))
	assert.Equal(t, "09:00", b.Time)
	assert.Equal(t, 2, b.Lane)
	require.NotNil(t, b.TrainerID)
	assert.Equal(t, coach, *b.TrainerID)
	assert.False(t, b.InGroup())
	assert.Equal(t, []time.Time{date}, env.Invalidations.Dates())

	t.Run("Empty trainer id means no trainer", func(t *testing.T) {
		b, err := env.Service.Reserve(ctx, booking.ReserveRequest{
			OwnerID: owner, Date: date, Time: "10:00", Lane: 1, TrainerID: ptr(""),
		})
		require.NoError(t, err)
		assert.Nil(t, b.TrainerID)
	})

	t.Run("Unknown references", func(t *testing.T) {
		tests := []struct {
			name string
			req  booking.ReserveRequest
			want error
		}{
			{"Slot", booking.ReserveRequest{OwnerID: owner, Date: date, Time: "08:00", Lane: 1}, inventory.ErrTimeSlotNotFound},
			{"Malformed slot", booking.ReserveRequest{OwnerID: owner, Date: date, Time: "noon", Lane: 1}, inventory.ErrInvalidTimeSlot},
			{"Lane", booking.ReserveRequest{OwnerID: owner, Date: date, Time: "11:00", Lane: 9}, inventory.ErrLaneNotFound},
			{"Trainer", booking.ReserveRequest{OwnerID: owner, Date: date, Time: "11:00", Lane: 1, TrainerID: ptr("missing")}, trainer.ErrNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.Service.Reserve(ctx, tt.req)
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})
}

func TestService_Reserve_NoDoubleBooking(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	first := env.Identities.Add(user.RoleUser, true)
	second := env.Identities.Add(user.RoleUser, true)

	_, err := env.Service.Reserve(ctx, booking.ReserveRequest{
		OwnerID: first, Date: date, Time: "10:00", Lane: 3, TrainerID: ptr(env.AddScheduledTrainer("Petrov", "Ivan")),
	})
	require.NoError(t, err)

	_, err = env.Service.Reserve(ctx, booking.ReserveRequest{
		OwnerID: second, Date: date, Time: "10:00", Lane: 3, TrainerID: ptr(env.AddScheduledTrainer("Sidorov", "Oleg")),
	})
	assert.ErrorIs(t, err, booking.ErrLaneTaken)
	assert.Equal(t, 1, env.Bookings.Count())

	// Another lane or another date is free.
	reserve(t, env, second, "10:00", 4)
	_, err = env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: second, Date: date.AddDate(0, 0, 1), Time: "10:00", Lane: 3})
	assert.NoError(t, err)
}

func TestService_Reserve_NoDoubleTrainer(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	first := env.Identities.Add(user.RoleUser, true)
	second := env.Identities.Add(user.RoleUser, true)
	coach := env.AddScheduledTrainer("Petrov", "Ivan")

	_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: first, Date: date, Time: "10:00", Lane: 1, TrainerID: &coach})
	require.NoError(t, err)

	_, err = env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: second, Date: date, Time: "10:00", Lane: 2, TrainerID: &coach})
	assert.ErrorIs(t, err, booking.ErrTrainerTaken)

	_, err = env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: second, Date: date, Time: "11:00", Lane: 2, TrainerID: &coach})
	assert.NoError(t, err)
}

func TestService_Reserve_ClosedSlot(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	owner := env.Identities.Add(user.RoleUser, true)

	_, err := env.Closures.Close(ctx, date, "10:00", "maintenance")
	require.NoError(t, err)

	for lane := 1; lane <= bookingtest.Lanes; lane++ {
		_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: owner, Date: date, Time: "10:00", Lane: lane})
		assert.ErrorIs(t, err, booking.ErrSlotClosed, "lane %d", lane)
	}
	assert.Zero(t, env.Bookings.Count())

	reserve(t, env, owner, "11:00", 1)
}

func TestService_Reserve_ConfirmationGate(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()

	tests := []struct {
		name      string
		role      user.Role
		confirmed bool
		wantErr   error
	}{
		{"Unconfirmed user", user.RoleUser, false, booking.ErrUnauthorized},
		{"Confirmed user", user.RoleUser, true, nil},
		{"Unconfirmed org", user.RoleOrg, false, nil},
		{"Admin", user.RoleAdmin, false, nil},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := env.Identities.Add(tt.role, tt.confirmed)
			_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: owner, Date: date, Time: "09:00", Lane: i + 1})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("Unknown owner", func(t *testing.T) {
		_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: "ghost", Date: date, Time: "10:00", Lane: 1})
		assert.ErrorIs(t, err, booking.ErrUnauthorized)
	})
}

func TestService_Reserve_ValidationOrder(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	other := env.Identities.Add(user.RoleUser, true)
	coach := env.AddScheduledTrainer("Petrov", "Ivan")

	_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: other, Date: date, Time: "09:00", Lane: 1, TrainerID: &coach})
	require.NoError(t, err)

	t.Run("Unconfirmed wins over everything", func(t *testing.T) {
		pending := env.Identities.Add(user.RoleUser, false)
		_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: pending, Date: date, Time: "09:00", Lane: 1, TrainerID: &coach})
		assert.ErrorIs(t, err, booking.ErrUnauthorized)
	})

	t.Run("Lane before trainer", func(t *testing.T) {
		_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: other, Date: date, Time: "09:00", Lane: 1, TrainerID: &coach})
		assert.ErrorIs(t, err, booking.ErrLaneTaken)
	})

	t.Run("Closed before lane", func(t *testing.T) {
		_, err := env.Closures.Close(ctx, date, "09:00", "")
		require.NoError(t, err)
		_, err = env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: other, Date: date, Time: "09:00", Lane: 1, TrainerID: &coach})
		assert.ErrorIs(t, err, booking.ErrSlotClosed)
	})
}

func TestService_Reserve_LostRace(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	winner := env.Identities.Add(user.RoleUser, true)
	loser := env.Identities.Add(user.RoleUser, true)

	// The competing row lands after the pre-checks passed.
	env.Bookings.BeforeCreate = func(b *booking.Booking) {
		env.Bookings.BeforeCreate = nil
		env.Bookings.Insert(booking.Booking{OwnerID: winner, Date: b.Date, Time: b.Time, Lane: b.Lane})
	}

	_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: loser, Date: date, Time: "10:00", Lane: 2})
	assert.ErrorIs(t, err, booking.ErrLaneTaken)
	assert.Equal(t, 1, env.Tx.Rollbacks)
	assert.Empty(t, env.Invalidations.Dates())

	mine, err := env.Service.ListForOwner(ctx, loser)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	owner := env.Identities.Add(user.RoleUser, true)
	stranger := env.Identities.Add(user.RoleUser, true)
	b := reserve(t, env, owner, "09:00", 1)

	err := env.Service.Cancel(ctx, b.ID, env.Identities[stranger])
	assert.ErrorIs(t, err, booking.ErrPermissionDenied)
	assert.Equal(t, 1, env.Bookings.Count())

	env.Invalidations.Reset()
	require.NoError(t, env.Service.Cancel(ctx, b.ID, env.Identities[owner]))
	assert.Zero(t, env.Bookings.Count())
	assert.Equal(t, []time.Time{date}, env.Invalidations.Dates())

	// A second cancel is a no-op.
	require.NoError(t, env.Service.Cancel(ctx, b.ID, env.Identities[owner]))
	assert.Zero(t, env.Bookings.Count())
	assert.Len(t, env.Invalidations.Dates(), 1)

	t.Run("Admin removes any booking", func(t *testing.T) {
		admin := env.Identities.Add(user.RoleAdmin, true)
		b := reserve(t, env, owner, "10:00", 1)
		require.NoError(t, env.Service.Cancel(ctx, b.ID, env.Identities[admin]))
		_, err := env.Service.GetByID(ctx, b.ID)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})

	t.Run("Group cells are managed by the group", func(t *testing.T) {
		org := env.Identities.Add(user.RoleOrg, true)
		b := env.Bookings.Insert(booking.Booking{OwnerID: org, GroupID: ptr("g1"), Date: date, Time: "11:00", Lane: 4})
		err := env.Service.Cancel(ctx, b.ID, env.Identities[org])
		assert.ErrorIs(t, err, booking.ErrGroupManaged)
	})
}

func TestService_Amend(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	owner := env.Identities.Add(user.RoleUser, true)
	other := env.Identities.Add(user.RoleUser, true)
	actor := env.Identities[owner]

	b := reserve(t, env, owner, "09:00", 1)
	reserve(t, env, other, "10:00", 2)

	t.Run("Unchanged coordinates", func(t *testing.T) {
		got, err := env.Service.Amend(ctx, b.ID, booking.AmendRequest{Date: date, Time: "09:00", Lane: 1}, actor)
		require.NoError(t, err)
		assert.Equal(t, "09:00", got.Time)
		assert.Equal(t, 1, got.Lane)
	})

	t.Run("Taken lane", func(t *testing.T) {
		_, err := env.Service.Amend(ctx, b.ID, booking.AmendRequest{Date: date, Time: "10:00", Lane: 2}, actor)
		assert.ErrorIs(t, err, booking.ErrLaneTaken)
	})

	t.Run("Closed slot", func(t *testing.T) {
		_, err := env.Closures.Close(ctx, date, "11:00", "")
		require.NoError(t, err)
		_, err = env.Service.Amend(ctx, b.ID, booking.AmendRequest{Date: date, Time: "11:00", Lane: 1}, actor)
		assert.ErrorIs(t, err, booking.ErrSlotClosed)
	})

	t.Run("Someone else's booking", func(t *testing.T) {
		_, err := env.Service.Amend(ctx, b.ID, booking.AmendRequest{Date: date, Time: "10:00", Lane: 3}, env.Identities[other])
		assert.ErrorIs(t, err, booking.ErrPermissionDenied)
	})

	t.Run("Missing booking", func(t *testing.T) {
		_, err := env.Service.Amend(ctx, "missing", booking.AmendRequest{Date: date, Time: "10:00", Lane: 3}, actor)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})

	t.Run("Free cell round trip", func(t *testing.T) {
		env.Invalidations.Reset()
		next := date.AddDate(0, 0, 1)
		got, err := env.Service.Amend(ctx, b.ID, booking.AmendRequest{Date: next, Time: "10:00", Lane: 2}, actor)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)

		list, err := env.Service.ListForOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].Date.Equal(next))
		assert.Equal(t, "10:00", list[0].Time)
		assert.Equal(t, 2, list[0].Lane)
		assert.ElementsMatch(t, []time.Time{date, next}, env.Invalidations.Dates())
	})
}

func TestService_Amend_Trainer(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	owner := env.Identities.Add(user.RoleUser, true)
	coach := env.AddScheduledTrainer("Petrov", "Ivan")

	b, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: owner, Date: date, Time: "09:00", Lane: 1, TrainerID: &coach})
	require.NoError(t, err)

	// Keeping its own trainer while switching lanes is not a conflict.
	got, err := env.Service.Amend(ctx, b.ID, booking.AmendRequest{Date: date, Time: "09:00", Lane: 2, TrainerID: &coach}, env.Identities[owner])
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lane)

	other, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: owner, Date: date, Time: "10:00", Lane: 1, TrainerID: &coach})
	require.NoError(t, err)
	_, err = env.Service.Amend(ctx, other.ID, booking.AmendRequest{Date: date, Time: "09:00", Lane: 3, TrainerID: &coach}, env.Identities[owner])
	assert.ErrorIs(t, err, booking.ErrTrainerTaken)

	// Dropping the trainer clears it.
	got, err = env.Service.Amend(ctx, other.ID, booking.AmendRequest{Date: date, Time: "09:00", Lane: 3}, env.Identities[owner])
	require.NoError(t, err)
	assert.Nil(t, got.TrainerID)
}

func TestService_Lists(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	alice := env.Identities.Add(user.RoleUser, true)
	bob := env.Identities.Add(user.RoleUser, true)

	reserve(t, env, alice, "11:00", 1)
	reserve(t, env, alice, "09:00", 2)
	reserve(t, env, bob, "09:00", 1)
	_, err := env.Service.Reserve(ctx, booking.ReserveRequest{OwnerID: bob, Date: date.AddDate(0, 0, 2), Time: "09:00", Lane: 1})
	require.NoError(t, err)

	mine, err := env.Service.ListForOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "09:00", mine[0].Time)
	assert.Equal(t, "11:00", mine[1].Time)

	onDate, err := env.Service.ListForDate(ctx, date.Add(5*time.Hour))
	require.NoError(t, err)
	require.Len(t, onDate, 3)
	assert.Equal(t, 1, onDate[0].Lane)
	assert.Equal(t, 2, onDate[1].Lane)

	from, to := date.AddDate(0, 0, 1), date.AddDate(0, 0, 3)
	page, total, err := env.Service.List(ctx, booking.Filter{From: &from, To: &to, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, page, 1)

	_, _, err = env.Service.List(ctx, booking.Filter{From: &to, To: &from})
	assert.ErrorIs(t, err, inventory.ErrInvalidRange)
}

func TestService_TrainerSchedule(t *testing.T) {
	ctx := context.Background()
	env := bookingtest.NewEnv()
	owner := env.Identities.Add(user.RoleUser, true)

	// date is a Monday; the coach works Mondays at 09:00 only.
	coach := env.AddTrainer("Petrov", "Ivan")
	shift, err := env.TrainerSvc.AddAvailability(ctx, coach, 0, "09:00")
	require.NoError(t, err)
	idle := env.AddTrainer("Sidorov", "Oleg")

	tests := []struct {
		name    string
		trainer string
		when    time.Time
		slot    string
		wantErr error
	}{
		{"Scheduled", coach, date, "09:00", nil},
		{"Other slot", coach, date, "10:00", booking.ErrTrainerNotScheduled},
		{"Other weekday", coach, date.AddDate(0, 0, 1), "09:00", booking.ErrTrainerNotScheduled},
		{"No schedule at all", idle, date, "11:00", booking.ErrTrainerNotScheduled},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Service.Reserve(ctx, booking.ReserveRequest{
				OwnerID: owner, Date: tt.when, Time: tt.slot, Lane: i + 1, TrainerID: ptr(tt.trainer),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
	assert.Equal(t, 1, env.Bookings.Count())

	mine, err := env.Service.ListForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	b := mine[0]

	// The schedule changes after the booking was made.
	require.NoError(t, env.TrainerSvc.RemoveAvailability(ctx, shift.ID))

	t.Run("Amend keeps the current trainer", func(t *testing.T) {
		got, err := env.Service.Amend(ctx, b.ID, booking.AmendRequest{Date: date, Time: "09:00", Lane: 3, TrainerID: &coach}, env.Identities[owner])
		require.NoError(t, err)
		require.NotNil(t, got.TrainerID)
		assert.Equal(t, coach, *got.TrainerID)
	})

	t.Run("Amend to an unscheduled trainer", func(t *testing.T) {
		_, err := env.Service.Amend(ctx, b.ID, booking.AmendRequest{Date: date, Time: "09:00", Lane: 3, TrainerID: &idle}, env.Identities[owner])
		assert.ErrorIs(t, err, booking.ErrTrainerNotScheduled)
	})
}
