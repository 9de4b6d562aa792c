package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/availability"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) FreeLanes(c *gin.Context) {
	var q request.DateSlotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, err := day.Parse(q.Date)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	lanes, err := h.service.FreeLanes(c.Request.Context(), date, q.Time)
	if err != nil {
		response.Error(c, err)
		return
	}
	slot, _ := inventory.NormalizeSlot(q.Time)
	c.JSON(http.StatusOK, FreeLanesResponse{Date: q.Date, Time: slot, Lanes: lanes})
}

func (h *Handler) FreeTrainers(c *gin.Context) {
	var q request.DateSlotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, err := day.Parse(q.Date)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	trainers, err := h.service.FreeTrainers(c.Request.Context(), date, q.Time)
	if err != nil {
		response.Error(c, err)
		return
	}
	slot, _ := inventory.NormalizeSlot(q.Time)
	c.JSON(http.StatusOK, FreeTrainersResponse{Date: q.Date, Time: slot, Trainers: newTrainerTags(trainers)})
}

// Week renders the caller's weekly grid. Without a date it shows the current week.
func (h *Handler) Week(c *gin.Context) {
	var q WeekRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date := time.Now()
	if q.Date != "" {
		parsed, err := day.Parse(q.Date)
		if err != nil {
			response.BadRequest(c, "invalid date", err)
			return
		}
		date = parsed
	}

	w, err := h.service.Week(c.Request.Context(), auth.GetUserID(c), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWeekResponse(w))
}
