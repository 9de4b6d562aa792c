package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"Lane constraint", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: laneConstraint}, ErrLaneTaken},
		{"Trainer index", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: trainerConstraint}, ErrTrainerTaken},
		{"Wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: trainerConstraint}), ErrTrainerTaken},
		{"Foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "bookings_lane_number_fkey"}, ErrReferenceGone},
		{"Other database error", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, nil},
		{"Plain error", errors.New("boom"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateWriteError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
