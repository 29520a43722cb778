// Package api wires the HTTP surface of the summary service.
package api

import (
	"net/http"

	"network-summary/internal/api/handlers"
	"network-summary/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter returns the gin engine serving the network summary endpoints.
func NewRouter(h *handlers.NetworkHandler, logger *zap.Logger, origins ...string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS(origins...))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/networks", h.ListNetworks)
		v1.GET("/networks/:id/summary", h.GetSummary)
		v1.GET("/networks/:id/costs", h.GetCosts)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
