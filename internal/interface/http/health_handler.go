package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"users-go-pgsql/pkg/response"
)

// Pinger is the slice of the pgx pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB     Pinger
	Logger *logrus.Logger
}

func NewHealthHandler(db Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{DB: db, Logger: logger}
}

// Check reports API and database health: 200 when the database answers a
// bounded ping, 503 otherwise.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("health check: database connection failed")
		}
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", gin.H{
			"status":   "unhealthy",
			"database": "disconnected: " + err.Error(),
		})
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	}, "healthy", nil)
}
