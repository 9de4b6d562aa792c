package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, apperror.KindNotFound, "booking not found")
	ErrUnauthorized     = apperror.New(http.StatusForbidden, apperror.KindUnauthorized, "account is pending confirmation")
	ErrSlotClosed       = apperror.New(http.StatusConflict, apperror.KindSlotClosed, "time slot is closed")
	ErrLaneTaken        = apperror.New(http.StatusConflict, apperror.KindDuplicate, "lane is already booked at this time")
	ErrTrainerTaken     = apperror.New(http.StatusConflict, apperror.KindDuplicate, "trainer is already booked at this time")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, apperror.KindForbidden, "permission denied")
	ErrGroupManaged     = apperror.New(http.StatusConflict, apperror.KindConflict, "booking belongs to a group; edit the group instead")
	ErrReferenceGone    = apperror.New(http.StatusNotFound, apperror.KindNotFound, "lane, time slot or trainer no longer exists")
	ErrPastDate         = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "cannot book a date in the past")

	ErrTrainerNotScheduled = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "trainer does not work at this time")
)

// Booking occupies one lane of one (date, time slot) cell.
type Booking struct {
	ID          string
	OwnerID     string
	OwnerName   string
	GroupID     *string
	Date        time.Time
	Time        string
	Lane        int
	TrainerID   *string
	TrainerName *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InGroup reports whether the booking is a cell of a group booking.
func (b *Booking) InGroup() bool {
	return b.GroupID != nil
}

// Filter defines filter options for listing bookings.
// A zero PageSize returns every matching row.
type Filter struct {
	OwnerID string
	GroupID string
	Date    *time.Time
	From    *time.Time
	To      *time.Time

	Page     int
	PageSize int
}
