package group

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, apperror.KindNotFound, "booking group not found")
	ErrOrgOnly          = apperror.New(http.StatusForbidden, apperror.KindForbidden, "only organization accounts may book groups")
	ErrNoTimes          = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "at least one time slot is required")
	ErrNoLanes          = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "at least one lane is required")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, apperror.KindForbidden, "permission denied")
)

// Group is an organization's block of lanes over a set of time slots on one date.
// Times and Lanes are derived from the group's booking rows.
type Group struct {
	ID        string
	OwnerID   string
	OwnerName string
	Date      time.Time
	Times     []string
	Lanes     []int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CellError names the (time, lane) cell that made a group write fail.
type CellError struct {
	Time string
	Lane int
	Err  error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s lane %d: %v", e.Time, e.Lane, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
