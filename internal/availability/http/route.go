package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/availability")
	group.GET("/lanes", h.FreeLanes)
	group.GET("/trainers", h.FreeTrainers)
	group.GET("/week", authMiddleware, h.Week)
}
