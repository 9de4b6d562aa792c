package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/closed-slots")
	group.GET("", h.List)

	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Close)
		admin.POST("/range", h.CloseRange)
		admin.DELETE("/:id", h.Reopen)
	}
}
