package http

import (
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/request"
	trainerHttp "github.com/nekogravitycat/pool-booking-backend/internal/trainer/http"
	userHttp "github.com/nekogravitycat/pool-booking-backend/internal/user/http"
)

// ListBookingsRequest defines query parameters for listing bookings.
// OwnerID is honoured for administrators only.
type ListBookingsRequest struct {
	request.ListParams
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
	GroupID string `form:"group_id" binding:"omitempty,uuid"`
	Date    string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	From    string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To      string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := day.Parse(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// filter converts the query into a booking.Filter for ownerID.
func (q ListBookingsRequest) filter(ownerID string) (booking.Filter, error) {
	f := booking.Filter{OwnerID: ownerID, GroupID: q.GroupID, Page: q.Page, PageSize: q.PageSize}
	var err error
	if f.Date, err = parseOptionalDate(q.Date); err != nil {
		return f, err
	}
	if f.From, err = parseOptionalDate(q.From); err != nil {
		return f, err
	}
	f.To, err = parseOptionalDate(q.To)
	return f, err
}

type BookingResponse struct {
	ID        string                  `json:"id"`
	Owner     userHttp.UserTag        `json:"owner"`
	GroupID   *string                 `json:"group_id"`
	Date      string                  `json:"date"`
	Time      string                  `json:"time"`
	Lane      int                     `json:"lane"`
	Trainer   *trainerHttp.TrainerTag `json:"trainer"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:        b.ID,
		Owner:     userHttp.UserTag{ID: b.OwnerID, Name: b.OwnerName},
		GroupID:   b.GroupID,
		Date:      day.Format(b.Date),
		Time:      b.Time,
		Lane:      b.Lane,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.TrainerID != nil {
		tag := trainerHttp.TrainerTag{ID: *b.TrainerID}
		if b.TrainerName != nil {
			tag.Name = *b.TrainerName
		}
		resp.Trainer = &tag
	}
	return resp
}

type CreateBookingRequest struct {
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string  `json:"time" binding:"required"`
	Lane      int     `json:"lane" binding:"required,min=1"`
	TrainerID *string `json:"trainer_id" binding:"omitempty,uuid"`
}

type UpdateBookingRequest struct {
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string  `json:"time" binding:"required"`
	Lane      int     `json:"lane" binding:"required,min=1"`
	TrainerID *string `json:"trainer_id" binding:"omitempty,uuid"`
}
