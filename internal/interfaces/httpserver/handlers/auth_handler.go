package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fx-gateway/internal/domain/auth"
	"fx-gateway/internal/interfaces/httpserver/middleware"
	"fx-gateway/internal/interfaces/httpserver/requests"
	"fx-gateway/internal/interfaces/httpserver/responses"
	"fx-gateway/internal/utils/platformerrors"
)

// AuthHandler exposes the token lifecycle endpoints.
type AuthHandler struct {
	service *auth.Service
	log     zerolog.Logger
}

func NewAuthHandler(service *auth.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With().Str("component", "auth-handler").Logger(),
	}
}

// Login verifies credentials and issues a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req requests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "username and password are required")
		return
	}

	pair, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		responses.HandleError(c, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, responses.NewTokenPairResponse(pair))
}

// Refresh rotates a refresh token into a fresh pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req requests.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "refresh_token is required")
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		responses.HandleError(c, err, "refresh failed")
		return
	}

	c.JSON(http.StatusOK, responses.NewTokenPairResponse(pair))
}

// Logout revokes the authenticated access token, plus the refresh token when
// the body names one. The body is optional.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req requests.LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "malformed logout request body")
			return
		}
	}

	accessToken := c.GetString(middleware.ContextAccessTokenKey)
	if err := h.service.Logout(c.Request.Context(), accessToken, req.RefreshToken); err != nil {
		responses.HandleError(c, err, "logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
