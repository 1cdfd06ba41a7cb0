package router

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	userapp "users-go-pgsql/internal/application"
	pginfra "users-go-pgsql/internal/infrastructure/postgres"
	handlers "users-go-pgsql/internal/interface/http"
	"users-go-pgsql/internal/router/modules"
)

// Deps carries the process-scoped collaborators the modules need. Everything
// is constructed once in main and passed by reference; no package-level state.
type Deps struct {
	Pool         *pgxpool.Pool
	Redis        *redis.Client
	Logger       *logrus.Logger
	DebugMetrics bool
}

// InitModules wires the repository, service and handlers, and registers every
// feature module with the registry. Called once during startup.
func InitModules(r *Registry, deps Deps) {
	repo := pginfra.NewUserRepository(deps.Pool)
	svc := userapp.NewService(repo, deps.Logger)

	userHandler := handlers.NewUserHandler(svc, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Pool, deps.Logger)

	r.Add(modules.NewUserModule(userHandler, deps.Redis))
	r.Add(modules.NewHealthModule(healthHandler))
	if deps.DebugMetrics {
		r.Add(modules.NewDebugModule(deps.Redis))
	}
}
