package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trucklogix/site-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type switchPinger struct {
	err error
}

func (p *switchPinger) Ping(_ context.Context) error { return p.err }

func TestHealthHandler_Healthcheck(t *testing.T) {
	pinger := &switchPinger{}
	handler := NewHealthHandler(pinger)
	handler.now = func() time.Time { return time.Date(2026, 4, 2, 12, 30, 0, 42_500_000, time.UTC) }

	router := gin.New()
	router.GET("/health", handler.Healthcheck)

	get := func() models.HealthResponse {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))

		var body models.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	body := get()
	assert.Equal(t, models.HealthResponse{
		Status:    "ok",
		Database:  "connected",
		Mongo:     "connected",
		Timestamp: "2026-04-02T12:30:00.042Z",
	}, body)

	pinger.err = errors.New("connection refused")
	body = get()
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "disconnected", body.Database)
	assert.Equal(t, "disconnected", body.Mongo)

	pinger.err = nil
	assert.Equal(t, "connected", get().Database)
}

func TestHealthcheck_TimestampKeepsMillisecondsOnWholeSeconds(t *testing.T) {
	handler := NewHealthHandler(&switchPinger{})
	handler.now = func() time.Time { return time.Date(2026, 4, 2, 14, 0, 5, 0, time.FixedZone("CDT", -5*3600)) }

	router := gin.New()
	router.GET("/health", handler.Healthcheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-04-02T19:00:05.000Z", body.Timestamp)
}
