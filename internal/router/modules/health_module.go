package modules

import (
	"github.com/gin-gonic/gin"

	handlers "users-go-pgsql/internal/interface/http"
)

// HealthModule exposes GET /api/v1/health. Not rate limited so load balancer
// probes never get throttled.
type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Check)
}
