package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fx-gateway/internal/domain/auth"
	"fx-gateway/internal/interfaces/httpserver/handlers"
	"fx-gateway/internal/interfaces/httpserver/middleware"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers    *handlers.Provider
	authService *auth.Service
	log         zerolog.Logger
}

func NewRoutes(provider *handlers.Provider, authService *auth.Service, log zerolog.Logger) *Routes {
	return &Routes{handlers: provider, authService: authService, log: log}
}

// Register attaches all v1 routes under the /v1 prefix. Login and refresh
// are the only open endpoints; everything else requires a bearer token.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.POST("/auth/login", r.handlers.Auth.Login)
	group.POST("/auth/refresh", r.handlers.Auth.Refresh)

	authed := group.Group("")
	authed.Use(middleware.RequireAuth(r.authService, r.log))
	authed.POST("/auth/logout", r.handlers.Auth.Logout)
	authed.GET("/rates/latest", r.handlers.Rates.Latest)
	authed.GET("/rates/historical", r.handlers.Rates.Historical)
	authed.GET("/rates/convert", r.handlers.Rates.Convert)
	authed.GET("/providers", r.handlers.Rates.Providers)
}
