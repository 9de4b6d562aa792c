package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
)

type Handler struct {
	service trainer.Service
}

func NewHandler(service trainer.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	trainers, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TrainerResponse, len(trainers))
	for i, t := range trainers {
		items[i] = NewTrainerResponse(t)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, 1, len(items), len(items)))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTrainerResponse(t))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateTrainerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	t, err := h.service.Create(c.Request.Context(), trainer.CreateRequest{
		LastName:    body.LastName,
		FirstName:   body.FirstName,
		MiddleName:  body.MiddleName,
		Age:         body.Age,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewTrainerResponse(t))
}

// Delete removes the trainer and its weekly schedule. Existing bookings stay without a trainer.
func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListAvailability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	list, err := h.service.ListAvailability(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AvailabilityResponse, len(list))
	for i, a := range list {
		items[i] = NewAvailabilityResponse(a)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, 1, len(items), len(items)))
}

func (h *Handler) AddAvailability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body AddAvailabilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	a, err := h.service.AddAvailability(c.Request.Context(), uri.ID, *body.DayOfWeek, body.Time)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewAvailabilityResponse(a))
}

// AddAvailabilityRange adds a run of slots for one weekday. Slots that already
// exist are skipped, so the response reports all, some or none.
func (h *Handler) AddAvailabilityRange(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body AddAvailabilityRangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	res, err := h.service.AddAvailabilityRange(c.Request.Context(), uri.ID, *body.DayOfWeek, body.Start, body.End)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRangeResponse(res))
}

func (h *Handler) RemoveAvailability(c *gin.Context) {
	var uri AvailabilityURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.RemoveAvailability(c.Request.Context(), uri.AvailabilityID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
