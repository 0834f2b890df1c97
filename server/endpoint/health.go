// Package endpoint provides the operational HTTP handlers mounted beside
// the service routes.
package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authd/version"
)

// Health returns a handler that reports service liveness.
func Health(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   serviceName,
			"version":   version.GetShortVersion(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Version returns a handler that reports full build information.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, version.GetVersionInfo())
	}
}
