package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("form") })
	app.Post("/", func(c *fiber.Ctx) error { return c.SendString("submitted") })
	app.Get("/assets/:file", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/broken", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "bad form") })
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app, m, reg
}

func TestPrometheusMiddleware_Counts(t *testing.T) {
	app, m, _ := newMetricsApp(t)

	requests := []struct {
		method, target string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/"},
		{http.MethodPost, "/"},
		{http.MethodGet, "/assets/app.css"},
		{http.MethodGet, "/assets/app.js"},
		{http.MethodGet, "/broken"},
	}
	for _, r := range requests {
		_, err := app.Test(httptest.NewRequest(r.method, r.target, nil))
		require.NoError(t, err)
	}

	tests := []struct {
		method, path, status string
		want                 float64
	}{
		{"GET", "/", "200", 1},
		{"POST", "/", "200", 2},
		{"GET", "/assets/:file", "200", 2},
		{"GET", "/broken", "400", 1},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := testutil.ToFloat64(m.requestCount.WithLabelValues(tt.method, tt.path, tt.status))
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 4, testutil.CollectAndCount(m.requestDuration), "one histogram per method and route")
}

func TestPrometheusMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	app, _, reg := newMetricsApp(t)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "http_requests_total", "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err, "registering twice on one registry must fail")
}
