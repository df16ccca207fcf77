package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the announcement endpoints at the engine root.
// The definitions route must be registered before the :id route so gin
// does not treat "definitions" as an id.
func RegisterRoutes(r gin.IRouter, h *Handler, middleware ...gin.HandlerFunc) {
	group := r.Group("/announcements")
	group.Use(middleware...)
	{
		group.GET("/definitions", h.Definitions)
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}
