package http

import (
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/closedslot"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
)

type ClosedSlotResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func NewClosedSlotResponse(cs *closedslot.ClosedSlot) ClosedSlotResponse {
	return ClosedSlotResponse{
		ID:        cs.ID,
		Date:      day.Format(cs.Date),
		Time:      cs.Time,
		Comment:   cs.Comment,
		CreatedAt: cs.CreatedAt,
	}
}

type ListRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

type CloseRequest struct {
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
	Time    string `json:"time" binding:"required"`
	Comment string `json:"comment" binding:"omitempty,max=200"`
}

type CloseRangeRequest struct {
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
	Start   string `json:"start" binding:"required"`
	End     string `json:"end" binding:"required"`
	Comment string `json:"comment" binding:"omitempty,max=200"`
}

// CloseRangeResponse reports how many slots of the range were newly closed.
type CloseRangeResponse struct {
	Requested int               `json:"requested"`
	Closed    int               `json:"closed"`
	Outcome   inventory.Outcome `json:"outcome"`
}
