package http

import (
	"salescrm_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is passed to every Module.RegisterRoutes call.
type RouterContext struct {
	Engine *gin.Engine
	// API is /api without authentication. Only health checks live here today.
	API *gin.RouterGroup
	// Protected is /api behind the API key check.
	Protected *gin.RouterGroup
	Config    config.AuthConfig
}
