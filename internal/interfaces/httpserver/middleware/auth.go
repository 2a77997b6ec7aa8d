package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fx-gateway/internal/domain/auth"
	"fx-gateway/internal/interfaces/httpserver/responses"
	"fx-gateway/internal/utils/platformerrors"
)

const (
	// ContextUsernameKey holds the authenticated username in the gin context.
	ContextUsernameKey = "auth.username"
	// ContextAccessTokenKey holds the raw bearer token in the gin context, so
	// logout can revoke the token that authenticated the request.
	ContextAccessTokenKey = "auth.access_token"
)

// RequireAuth gates a route group behind a valid bearer access token.
func RequireAuth(service *auth.Service, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing Authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "Authorization header must be a Bearer token")
			return
		}

		username, err := service.ValidateAccess(c.Request.Context(), token)
		if err != nil {
			log.Debug().Err(err).Msg("access token rejected")
			responses.HandleError(c, err, "invalid access token")
			return
		}

		c.Set(ContextUsernameKey, username)
		c.Set(ContextAccessTokenKey, token)
		c.Next()
	}
}
