package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trucklogix/site-api/internal/models"
)

const healthPingTimeout = 2 * time.Second

// ISO 8601 in UTC with milliseconds, e.g. 2026-04-02T12:30:00.042Z
const healthTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Pinger reports whether the datastore is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// Healthcheck always answers 200; the datastore state is reported in the body
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	state := "connected"
	if err := h.db.Ping(ctx); err != nil {
		attachError(c, err)
		state = "disconnected"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Database:  state,
		Mongo:     state,
		Timestamp: h.now().UTC().Format(healthTimestampLayout),
	})
}
