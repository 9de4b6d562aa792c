package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/response"
)

type Handler struct {
	service inventory.Service
}

func NewHandler(service inventory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListLanes(c *gin.Context) {
	lanes, err := h.service.ListLanes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]LaneResponse, len(lanes))
	for i, l := range lanes {
		items[i] = NewLaneResponse(l)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, 1, len(items), len(items)))
}

func (h *Handler) CreateLane(c *gin.Context) {
	var body CreateLaneRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	lane, err := h.service.AddLane(c.Request.Context(), body.Number, body.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewLaneResponse(lane))
}

// DeleteLane removes a lane and every booking on it.
func (h *Handler) DeleteLane(c *gin.Context) {
	var uri LaneURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid lane number", err)
		return
	}

	if err := h.service.RemoveLane(c.Request.Context(), uri.Number); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListTimeSlots(c *gin.Context) {
	slots, err := h.service.ListTimeSlots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	c.JSON(http.StatusOK, TimeSlotListResponse{Items: slots})
}

func (h *Handler) CreateTimeSlot(c *gin.Context) {
	var body CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	slot, err := h.service.AddTimeSlot(c.Request.Context(), body.Time)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, TimeSlotResponse{Time: slot})
}

// DeleteTimeSlot removes a slot with its bookings, closures and trainer schedule entries.
func (h *Handler) DeleteTimeSlot(c *gin.Context) {
	var uri TimeSlotURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid time slot", err)
		return
	}

	if err := h.service.RemoveTimeSlot(c.Request.Context(), uri.Time); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
