package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	m.PickupsRejected.WithLabelValues("insufficient_stock").Inc()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(body, `supply_tracker_http_request_duration_seconds_count{method="GET",path="/ping",status="200"} 1`))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PickupsRejected.WithLabelValues("insufficient_stock")))
}
