package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	router.GET("/healthz", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", handler.Analyze)     // POST /api/v1/analyze
		v1.POST("/sentiment", handler.Sentiment) // POST /api/v1/sentiment
		v1.POST("/category", handler.Category)   // POST /api/v1/category
		v1.POST("/risks", handler.Risks)         // POST /api/v1/risks
		v1.POST("/compare", handler.Compare)     // POST /api/v1/compare
	}
}
