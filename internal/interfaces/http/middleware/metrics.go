// internal/interfaces/http/middleware/metrics.go
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/pkg/monitor"
)

// slowRouteThreshold marks requests worth surfacing on the health snapshot
const slowRouteThreshold = 2 * time.Second

// Metrics counts completed requests by status class and records slow routes
func Metrics(collector *monitor.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		collector.RecordRequest(c.Writer.Status())

		if elapsed := time.Since(start); elapsed > slowRouteThreshold {
			collector.RecordSlowRoute(c.Request.Method, c.FullPath(), elapsed)
		}
	}
}

// Recovery recovers from handler panics, records the crash, and returns a
// generic 500 to the client.
func Recovery(collector *monitor.Collector) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		collector.RecordCrash(c.Request.Method, c.Request.URL.Path, fmt.Errorf("%v", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	})
}
