// Package http holds what the composition root hands to the router: the
// app dependencies and the Module contract each bounded context satisfies.
package http

import (
	"context"

	"realty_crm_backend/platform/config"
	"realty_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RouterConfig is the config slice the router reads.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker backs /api/health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is built by main and passed to router.New.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}

// Module is a bounded context that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module may attach routes to.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is /api/v1, already behind the rate limiter.
	V1 *gin.RouterGroup
}
