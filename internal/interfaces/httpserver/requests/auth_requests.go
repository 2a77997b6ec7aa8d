package requests

// LoginRequest carries credential login input.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token rotation request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally names the refresh token to revoke alongside the
// presented access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
