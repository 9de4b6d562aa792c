package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "bookings_lane_key"})

	name, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "bookings_lane_key", name)

	_, ok = UniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
	assert.False(t, ok)

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)
}

func TestForeignKeyViolation(t *testing.T) {
	name, ok := ForeignKeyViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "bookings_lane_fkey"})
	assert.True(t, ok)
	assert.Equal(t, "bookings_lane_fkey", name)
}

func TestCellLockKey(t *testing.T) {
	d := time.Date(2030, 3, 4, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "cell:2030-03-04T09:00", CellLockKey(d, "09:00"))
}
