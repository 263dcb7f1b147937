package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API on r. limit, when non-nil, guards the
// rendering endpoints.
func RegisterRoutes(r *gin.Engine, h *Handler, limit gin.HandlerFunc) {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if limit == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{limit, fn}
	}

	r.GET("/ping", ping)

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/search", h.searchHandler)
		api.POST("/generate", guarded(h.generateHandler)...)
		api.POST("/regenerate", guarded(h.regenerateHandler)...)
		api.GET("/qr", qrHandler)
	}
}
