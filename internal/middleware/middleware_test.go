package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"

	appconfig "TourCore/config"
)

func newEngine() *route.Engine {
	return route.NewEngine(config.NewOptions(nil))
}

func TestRecoverMiddleware(t *testing.T) {
	engine := newEngine()
	engine.Use(RecoverMiddlewareWithConfig(RecoverConfig{IsProduction: true}))
	engine.GET("/boom", func(ctx context.Context, c *app.RequestContext) {
		panic("boom")
	})

	w := ut.PerformRequest(engine, http.MethodGet, "/boom", nil)
	resp := w.Result()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "INTERNAL_ERROR")
	assert.NotContains(t, string(resp.Body()), "boom")
}

func TestCORSPreflight(t *testing.T) {
	engine := newEngine()
	engine.Use(CORSMiddleware())
	engine.OPTIONS("/v1/bookings", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, "unreachable")
	})

	w := ut.PerformRequest(engine, http.MethodOptions, "/v1/bookings", nil,
		ut.Header{Key: "Origin", Value: "https://tours.example.com"})
	resp := w.Result()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
	assert.Equal(t, "https://tours.example.com", string(resp.Header.Peek("Access-Control-Allow-Origin")))
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	prev := appconfig.Cfg.CORSAllowedOrigins
	appconfig.Cfg.CORSAllowedOrigins = []string{"https://tours.example.com"}
	t.Cleanup(func() { appconfig.Cfg.CORSAllowedOrigins = prev })

	engine := newEngine()
	engine.Use(CORSMiddleware())
	engine.GET("/v1/tours/1", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, "ok")
	})

	w := ut.PerformRequest(engine, http.MethodGet, "/v1/tours/1", nil,
		ut.Header{Key: "Origin", Value: "https://evil.example.com"})
	resp := w.Result()

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Empty(t, string(resp.Header.Peek("Access-Control-Allow-Origin")))
}

func TestRequestIDMiddleware(t *testing.T) {
	engine := newEngine()
	engine.Use(RequestIDMiddleware())
	engine.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := ut.PerformRequest(engine, http.MethodGet, "/ping", nil,
		ut.Header{Key: "X-Request-Id", Value: "req-42"})
	resp := w.Result()
	assert.Equal(t, "req-42", string(resp.Body()))
	assert.Equal(t, "req-42", string(resp.Header.Peek("X-Request-Id")))

	w = ut.PerformRequest(engine, http.MethodGet, "/ping", nil)
	assert.NotEmpty(t, string(w.Result().Header.Peek("X-Request-Id")))
}

type stubLimiter struct {
	max   int
	count int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, int, error) {
	l.count++
	return l.count <= l.max, l.count, nil
}

func (l *stubLimiter) Limit() int { return l.max }

func TestRateLimitMiddleware(t *testing.T) {
	engine := newEngine()
	engine.POST("/v1/bookings", RateLimitMiddleware(&stubLimiter{max: 1}), func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusCreated, "created")
	})

	first := ut.PerformRequest(engine, http.MethodPost, "/v1/bookings", nil).Result()
	assert.Equal(t, http.StatusCreated, first.StatusCode())
	assert.Equal(t, "0", string(first.Header.Peek("X-RateLimit-Remaining")))

	second := ut.PerformRequest(engine, http.MethodPost, "/v1/bookings", nil).Result()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode())
	assert.Contains(t, string(second.Body()), "TOO_MANY_REQUESTS")
}

func TestRateLimitMiddlewareNilLimiter(t *testing.T) {
	engine := newEngine()
	engine.POST("/v1/bookings", RateLimitMiddleware(nil), func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusCreated, "created")
	})

	resp := ut.PerformRequest(engine, http.MethodPost, "/v1/bookings", nil).Result()
	assert.Equal(t, http.StatusCreated, resp.StatusCode())
}
