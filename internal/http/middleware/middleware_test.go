package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	rec := serve(router, http.MethodGet, "/ping", nil)
	generated := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, rec.Body.String())

	rec = serve(router, http.MethodGet, "/ping", http.Header{RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", rec.Body.String())
}

func TestLoggerWritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(), Logger(slog.New(slog.NewJSONHandler(&buf, nil))))
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusServiceUnavailable)
	})

	serve(router, http.MethodGet, "/boom", http.Header{RequestIDHeader: {"req-1"}})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "http request", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/boom", line["path"])
	assert.EqualValues(t, http.StatusServiceUnavailable, line["status"])
	assert.Contains(t, line, "latency_ms")
}

func TestPrometheusCountsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheus(reg)
	require.NoError(t, err)

	router := gin.New()
	router.Use(metrics.Handler())
	router.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.DELETE("/users/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET(MetricsPath, func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, http.MethodGet, "/users/1", nil)
	serve(router, http.MethodGet, "/users/2", nil)
	serve(router, http.MethodDelete, "/users/2", nil)
	serve(router, http.MethodGet, MetricsPath, nil)
	serve(router, http.MethodGet, "/missing/7", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requestCount.WithLabelValues("GET", "/users/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestCount.WithLabelValues("DELETE", "/users/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestCount.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.requestCount))
}

func TestNewPrometheusRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	require.Error(t, err)
}
