package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/trainers")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.GET("/:id/availability", h.ListAvailability)

	// === Admin Routes ===
	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/availability", h.AddAvailability)
		admin.POST("/:id/availability/range", h.AddAvailabilityRange)
		admin.DELETE("/:id/availability/:availability_id", h.RemoveAvailability)
	}
}
