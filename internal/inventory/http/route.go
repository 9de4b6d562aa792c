package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	lanes := g.Group("/lanes")
	{
		lanes.GET("", h.ListLanes)
		lanes.POST("", authMiddleware, adminMiddleware, h.CreateLane)
		lanes.DELETE("/:number", authMiddleware, adminMiddleware, h.DeleteLane)
	}

	slots := g.Group("/timeslots")
	{
		slots.GET("", h.ListTimeSlots)
		slots.POST("", authMiddleware, adminMiddleware, h.CreateTimeSlot)
		slots.DELETE("/:time", authMiddleware, adminMiddleware, h.DeleteTimeSlot)
	}
}
