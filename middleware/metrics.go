package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/consigliere/consigliere/utils"
)

// Metrics records per-request count, latency, and error counters for
// Prometheus scraping.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = ctx.Request.URL.Path
		}
		status := ctx.Writer.Status()
		utils.RequestCount.WithLabelValues(ctx.Request.Method, endpoint, strconv.Itoa(status)).Inc()
		utils.RequestLatency.WithLabelValues(ctx.Request.Method, endpoint).Observe(time.Since(start).Seconds())
		if status >= http.StatusBadRequest {
			utils.ErrorCount.WithLabelValues("http_error", endpoint).Inc()
		}
	}
}
