package inventory

import (
	"net/http"

	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/apperror"
)

var (
	ErrLaneNotFound     = apperror.New(http.StatusNotFound, apperror.KindNotFound, "lane not found")
	ErrLaneExists       = apperror.New(http.StatusConflict, apperror.KindDuplicate, "lane already exists")
	ErrInvalidLane      = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "lane number must be positive")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "name cannot be empty")
	ErrTimeSlotNotFound = apperror.New(http.StatusNotFound, apperror.KindNotFound, "time slot not found")
	ErrTimeSlotExists   = apperror.New(http.StatusConflict, apperror.KindDuplicate, "time slot already exists")
	ErrInvalidTimeSlot  = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "time slot must be HH:MM")
	ErrInvalidRange     = apperror.New(http.StatusBadRequest, apperror.KindInvalidRange, "range start must not be after its end")
)

// Lane is one physical pool lane.
type Lane struct {
	Number int
	Name   string
}

// Outcome summarizes a range operation whose items are applied independently.
type Outcome string

const (
	OutcomeAll  Outcome = "all"
	OutcomeSome Outcome = "some"
	OutcomeNone Outcome = "none"
)

// RangeResult counts how many slots of a range were actually written.
type RangeResult struct {
	Requested int
	Applied   int
}

func (r RangeResult) Outcome() Outcome {
	switch {
	case r.Requested > 0 && r.Applied == r.Requested:
		return OutcomeAll
	case r.Applied > 0:
		return OutcomeSome
	default:
		return OutcomeNone
	}
}
