package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

type Handler struct {
	service    booking.Service
	identities booking.Identities
	now        func() time.Time
}

func NewHandler(service booking.Service, identities booking.Identities) *Handler {
	return &Handler{service: service, identities: identities, now: time.Now}
}

// actor loads the caller's identity, writing the error response itself on failure.
func (h *Handler) actor(c *gin.Context) (user.Identity, bool) {
	identity, err := h.identities.Identity(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return user.Identity{}, false
	}
	return identity, true
}

// futureDate parses a request date and rejects days before today, writing
// the error response itself on failure.
func (h *Handler) futureDate(c *gin.Context, s string) (time.Time, bool) {
	date, err := day.Parse(s)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return time.Time{}, false
	}
	if date.Before(day.Truncate(h.now())) {
		response.Error(c, booking.ErrPastDate)
		return time.Time{}, false
	}
	return date, true
}

func (h *Handler) List(c *gin.Context) {
	var q ListBookingsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	q.Normalize()

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	// Regular users only ever see their own bookings.
	ownerID := actor.UserID
	if actor.IsAdmin() {
		ownerID = q.OwnerID
	}

	filter, err := q.filter(ownerID)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if b.OwnerID != actor.UserID && !actor.IsAdmin() {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	date, ok := h.futureDate(c, body.Date)
	if !ok {
		return
	}

	b, err := h.service.Reserve(c.Request.Context(), booking.ReserveRequest{
		OwnerID:   auth.GetUserID(c),
		Date:      date,
		Time:      body.Time,
		Lane:      body.Lane,
		TrainerID: body.TrainerID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body UpdateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	date, ok := h.futureDate(c, body.Date)
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	b, err := h.service.Amend(c.Request.Context(), uri.ID, booking.AmendRequest{
		Date:      date,
		Time:      body.Time,
		Lane:      body.Lane,
		TrainerID: body.TrainerID,
	}, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Delete cancels a booking; cancelling one that is already gone answers 204.
func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), uri.ID, actor); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
