package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/pool-booking-backend/internal/closedslot"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/response"
)

type Handler struct {
	service closedslot.Service
}

func NewHandler(service closedslot.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var q ListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, err := day.Parse(q.Date)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	slots, err := h.service.ListForDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ClosedSlotResponse, len(slots))
	for i, cs := range slots {
		items[i] = NewClosedSlotResponse(cs)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, 1, len(items), len(items)))
}

func (h *Handler) Close(c *gin.Context) {
	var body CloseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	date, err := day.Parse(body.Date)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	cs, err := h.service.Close(c.Request.Context(), date, body.Time, body.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewClosedSlotResponse(cs))
}

func (h *Handler) CloseRange(c *gin.Context) {
	var body CloseRangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	date, err := day.Parse(body.Date)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	res, err := h.service.CloseRange(c.Request.Context(), date, body.Start, body.End, body.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, CloseRangeResponse{Requested: res.Requested, Closed: res.Applied, Outcome: res.Outcome()})
}

// Reopen is idempotent: reopening an unknown id still answers 204.
func (h *Handler) Reopen(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Reopen(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
