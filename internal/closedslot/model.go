package closedslot

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/apperror"
)

var ErrAlreadyClosed = apperror.New(http.StatusConflict, apperror.KindDuplicate, "time slot is already closed on this date")

// ClosedSlot blocks every lane of one time slot on one date.
type ClosedSlot struct {
	ID        string
	Date      time.Time
	Time      string
	Comment   string
	CreatedAt time.Time
}
