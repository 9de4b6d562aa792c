package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/group"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

type Handler struct {
	service    group.Service
	identities booking.Identities
	now        func() time.Time
}

func NewHandler(service group.Service, identities booking.Identities) *Handler {
	return &Handler{service: service, identities: identities, now: time.Now}
}

func (h *Handler) actor(c *gin.Context) (user.Identity, bool) {
	identity, err := h.identities.Identity(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return user.Identity{}, false
	}
	return identity, true
}

func (h *Handler) bindShape(c *gin.Context) (group.Shape, bool) {
	var body ShapeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return group.Shape{}, false
	}
	date, err := day.Parse(body.Date)
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return group.Shape{}, false
	}
	if date.Before(day.Truncate(h.now())) {
		response.Error(c, booking.ErrPastDate)
		return group.Shape{}, false
	}
	return body.toShape(date), true
}

func (h *Handler) List(c *gin.Context) {
	var q ListGroupsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	ownerID := actor.UserID
	if actor.IsAdmin() {
		ownerID = q.OwnerID
	}

	groups, err := h.service.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]GroupResponse, len(groups))
	for i, g := range groups {
		items[i] = NewGroupResponse(g)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, 1, len(items), len(items)))
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

	g, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if g.OwnerID != actor.UserID && !actor.IsAdmin() {
		response.Error(c, group.ErrPermissionDenied)
		return
	}
	c.JSON(http.StatusOK, NewGroupResponse(g))
}

func (h *Handler) Create(c *gin.Context) {
	shape, ok := h.bindShape(c)
	if !ok {
		return
	}

	g, err := h.service.Create(c.Request.Context(), group.CreateRequest{OwnerID: auth.GetUserID(c), Shape: shape})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewGroupResponse(g))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	shape, ok := h.bindShape(c)
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	g, err := h.service.Update(c.Request.Context(), uri.ID, shape, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewGroupResponse(g))
}

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

	if err := h.service.Delete(c.Request.Context(), uri.ID, actor); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
