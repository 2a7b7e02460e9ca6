package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consigliere/consigliere/utils"
)

func TestMetricsCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	before := testutil.ToFloat64(utils.RequestCount.WithLabelValues("GET", "/ping", "200"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	after := testutil.ToFloat64(utils.RequestCount.WithLabelValues("GET", "/ping", "200"))
	assert.Equal(t, before+1, after)
}

func TestMetricsCountsErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/boom", func(ctx *gin.Context) {
		ctx.String(http.StatusInternalServerError, "boom")
	})

	before := testutil.ToFloat64(utils.ErrorCount.WithLabelValues("http_error", "/boom"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	after := testutil.ToFloat64(utils.ErrorCount.WithLabelValues("http_error", "/boom"))
	assert.Equal(t, before+1, after)
}
