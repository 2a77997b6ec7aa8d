package handlers

import (
	"github.com/rs/zerolog"

	"fx-gateway/internal/config"
	"fx-gateway/internal/domain/auth"
	"fx-gateway/internal/domain/rates"
)

// Provider wires HTTP handlers.
type Provider struct {
	Auth  *AuthHandler
	Rates *RatesHandler
}

func NewProvider(cfg *config.Config, authService *auth.Service, factory *rates.Factory, log zerolog.Logger) *Provider {
	return &Provider{
		Auth:  NewAuthHandler(authService, log),
		Rates: NewRatesHandler(factory, cfg.DefaultProvider, log),
	}
}
