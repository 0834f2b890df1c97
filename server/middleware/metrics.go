package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authd/observability"
)

// Metrics returns a Gin middleware that records the duration of every
// request against the matched route. A nil Metrics makes it a no-op.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		m.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
