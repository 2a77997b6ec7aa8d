package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fx-gateway/internal/domain/rates"
	"fx-gateway/internal/interfaces/httpserver/requests"
	"fx-gateway/internal/interfaces/httpserver/responses"
	"fx-gateway/internal/utils/platformerrors"
)

// RatesHandler exposes the exchange-rate endpoints.
type RatesHandler struct {
	factory         *rates.Factory
	defaultProvider string
	log             zerolog.Logger
}

func NewRatesHandler(factory *rates.Factory, defaultProvider string, log zerolog.Logger) *RatesHandler {
	return &RatesHandler{
		factory:         factory,
		defaultProvider: defaultProvider,
		log:             log.With().Str("component", "rates-handler").Logger(),
	}
}

// resolveProvider picks the requested provider, or the configured default
// when the query does not name one.
func (h *RatesHandler) resolveProvider(c *gin.Context, name string) (rates.Provider, bool) {
	if name == "" {
		name = h.defaultProvider
	}
	provider, err := h.factory.Create(c.Request.Context(), name)
	if err != nil {
		responses.HandleError(c, err, "unknown rate provider")
		return nil, false
	}
	return provider, true
}

// Latest serves the most recent rates for a base currency.
func (h *RatesHandler) Latest(c *gin.Context) {
	var req requests.LatestRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "malformed query parameters")
		return
	}

	provider, ok := h.resolveProvider(c, req.Provider)
	if !ok {
		return
	}

	snap, err := provider.Latest(c.Request.Context(), req.Base, requests.SplitSymbols(req.Symbols))
	if err != nil {
		responses.HandleError(c, err, "failed to fetch latest rates")
		return
	}

	c.JSON(http.StatusOK, responses.NewLatestRatesResponse(provider.Name(), snap))
}

// Historical serves a paginated date-range rate series.
func (h *RatesHandler) Historical(c *gin.Context) {
	var req requests.HistoricalRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"start must be a yyyy-MM-dd date and pagination parameters must be positive")
		return
	}

	provider, ok := h.resolveProvider(c, req.Provider)
	if !ok {
		return
	}

	snap, err := provider.Historical(c.Request.Context(), req.Start, req.End, req.Base, requests.SplitSymbols(req.Symbols))
	if err != nil {
		responses.HandleError(c, err, "failed to fetch historical rates")
		return
	}

	page, err := snap.Paginate(req.Page, req.PageSize)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	c.JSON(http.StatusOK, responses.NewHistoricalRatesResponse(provider.Name(), page))
}

// Convert converts an amount between two currencies at the latest rate.
func (h *RatesHandler) Convert(c *gin.Context) {
	var req requests.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "from, to and amount are required")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "amount must be a decimal number")
		return
	}

	provider, ok := h.resolveProvider(c, req.Provider)
	if !ok {
		return
	}

	result, err := provider.Convert(c.Request.Context(), req.From, req.To, amount)
	if err != nil {
		responses.HandleError(c, err, "conversion failed")
		return
	}

	c.JSON(http.StatusOK, responses.ConvertResponse{
		Provider: provider.Name(),
		From:     req.From,
		To:       req.To,
		Amount:   amount,
		Result:   result,
	})
}

// Providers lists the registered rate providers.
func (h *RatesHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, responses.ProvidersResponse{
		Default:   h.defaultProvider,
		Providers: h.factory.Available(),
	})
}
