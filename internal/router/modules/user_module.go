package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "users-go-pgsql/internal/interface/http"
	"users-go-pgsql/internal/interface/middleware"
)

// UserModule wires the user CRUD handlers into routes:
// GET/POST /api/v1/users, GET/PUT/PATCH/DELETE /api/v1/users/:id.
// Write endpoints carry a stricter per-IP rate limit than reads.
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	writeLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	{
		users.GET("", readLimiter, m.Handler.List)
		users.GET("/:id", readLimiter, m.Handler.Get)
		users.POST("", writeLimiter, m.Handler.Create)
		users.PUT("/:id", writeLimiter, m.Handler.Update)
		users.PATCH("/:id", writeLimiter, m.Handler.Patch)
		users.DELETE("/:id", writeLimiter, m.Handler.Delete)
	}
}
