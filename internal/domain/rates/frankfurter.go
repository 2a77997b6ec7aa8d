package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fx-gateway/internal/infrastructure/cache"
	"fx-gateway/internal/infrastructure/metrics"
	"fx-gateway/internal/infrastructure/resilience"
	"fx-gateway/internal/infrastructure/upstream"
	"fx-gateway/internal/utils/platformerrors"
)

// maxHistoricalRangeDays bounds a single historical query.
const maxHistoricalRangeDays = 365

// FrankfurterConfig carries the provider's cache lifetimes.
type FrankfurterConfig struct {
	LatestTTL     time.Duration
	HistoricalTTL time.Duration
}

// Frankfurter fetches rates from a Frankfurter-compatible upstream through
// the cache-aside fetcher and the resilience pipeline.
type Frankfurter struct {
	cfg      FrankfurterConfig
	client   *upstream.Client
	pipeline *resilience.Pipeline
	fetcher  *cache.Fetcher
	filter   *SymbolFilter
	now      func() time.Time
	log      zerolog.Logger
}

var _ Provider = (*Frankfurter)(nil)

// NewFrankfurter wires the provider. A nil clock defaults to time.Now.
func NewFrankfurter(cfg FrankfurterConfig, client *upstream.Client, pipeline *resilience.Pipeline, fetcher *cache.Fetcher, filter *SymbolFilter, log zerolog.Logger, now func() time.Time) *Frankfurter {
	if now == nil {
		now = time.Now
	}
	return &Frankfurter{
		cfg:      cfg,
		client:   client,
		pipeline: pipeline,
		fetcher:  fetcher,
		filter:   filter,
		now:      now,
		log:      log.With().Str("component", "frankfurter-provider").Logger(),
	}
}

// Name returns the registry name of this provider.
func (p *Frankfurter) Name() string {
	return "frankfurter"
}

type latestPayload struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type historicalPayload struct {
	Base      string                                `json:"base"`
	StartDate string                                `json:"start_date"`
	EndDate   string                                `json:"end_date"`
	Rates     map[string]map[string]decimal.Decimal `json:"rates"`
}

// Latest returns the most recent rates for a base currency, restricted to the
// requested symbols when given. Denylisted codes never appear in the result.
func (p *Frankfurter) Latest(ctx context.Context, base string, symbols []string) (*RateSnapshot, error) {
	if err := p.validateCurrencies(ctx, base, symbols); err != nil {
		return nil, err
	}

	pathQuery := "/latest" + buildQuery(base, symbols)
	key := p.client.BaseURL() + pathQuery

	if snap, outcome, err := cache.Lookup[RateSnapshot](ctx, p.fetcher, key); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("cache lookup failed, falling through to upstream")
	} else if outcome == cache.OutcomeHit {
		return &snap, nil
	}

	body, err := p.fetch(ctx, "latest_rates", pathQuery)
	if err != nil {
		return nil, err
	}

	var payload latestPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Rates == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"upstream returned a payload without a rates mapping", err)
	}

	snap := RateSnapshot{
		Base:      payload.Base,
		Rates:     p.filter.Strip(payload.Rates),
		AsOf:      payload.Date,
		ExpiresAt: p.now().Add(p.cfg.LatestTTL),
	}

	if err := cache.Save(ctx, p.fetcher, key, snap); err != nil {
		p.log.Error().Err(err).Str("key", key).Msg("failed to cache latest rates")
	}

	return &snap, nil
}

// Historical returns rates over a date range. The end date may be blank, in
// which case the upstream extends the range to the present.
func (p *Frankfurter) Historical(ctx context.Context, startDate, endDate, base string, symbols []string) (*HistoricalSnapshot, error) {
	if err := p.validateCurrencies(ctx, base, symbols); err != nil {
		return nil, err
	}

	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("start date %q is not a valid yyyy-MM-dd date", startDate), err)
	}

	today := p.now().UTC().Truncate(24 * time.Hour)
	if start.After(today) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("start date %s must not be in the future", startDate), nil)
	}

	rangeEnd := today
	if endDate != "" {
		end, err := time.Parse(DateLayout, endDate)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("end date %q is not a valid yyyy-MM-dd date", endDate), err)
		}
		if end.Before(start) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("end date %s must not be before start date %s", endDate, startDate), nil)
		}
		rangeEnd = end
	}

	if rangeEnd.Sub(start) > maxHistoricalRangeDays*24*time.Hour {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("date range must not exceed %d days", maxHistoricalRangeDays), nil)
	}

	pathQuery := fmt.Sprintf("/%s..%s", startDate, endDate) + buildQuery(base, symbols)
	key := p.client.BaseURL() + pathQuery

	if snap, outcome, err := cache.Lookup[HistoricalSnapshot](ctx, p.fetcher, key); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("cache lookup failed, falling through to upstream")
	} else if outcome == cache.OutcomeHit {
		return &snap, nil
	}

	body, err := p.fetch(ctx, "historical_rates", pathQuery)
	if err != nil {
		return nil, err
	}

	var payload historicalPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Rates == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"upstream returned a payload without a rates mapping", err)
	}

	for date := range payload.Rates {
		payload.Rates[date] = p.filter.Strip(payload.Rates[date])
	}

	snap := HistoricalSnapshot{
		Base:      payload.Base,
		Rates:     payload.Rates,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		ExpiresAt: p.now().Add(p.cfg.HistoricalTTL),
	}

	if err := cache.Save(ctx, p.fetcher, key, snap); err != nil {
		p.log.Error().Err(err).Str("key", key).Msg("failed to cache historical rates")
	}

	return &snap, nil
}

// Convert converts amount from one currency to another using the latest rate,
// rounded to 2 decimal places half away from zero.
func (p *Frankfurter) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return decimal.Zero, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"both from and to currencies are required", nil)
	}
	if !amount.IsPositive() {
		return decimal.Zero, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("amount must be greater than zero, got %s", amount), nil)
	}

	snap, err := p.Latest(ctx, from, []string{to})
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := snap.Rates[strings.ToUpper(strings.TrimSpace(to))]
	if !ok {
		return decimal.Zero, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("no rate found for %s in %s-based rates", to, snap.Base), nil)
	}

	return amount.Mul(rate).Round(2), nil
}

// fetch runs an upstream GET under the resilience pipeline and maps failures
// to the error taxonomy.
func (p *Frankfurter) fetch(ctx context.Context, operation, pathQuery string) ([]byte, error) {
	result, err := p.pipeline.Execute(ctx, operation, func(ctx context.Context) (resilience.Result, error) {
		return p.client.Get(ctx, pathQuery)
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			metrics.RecordUpstreamRequest(operation, "circuit_open")
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnavailable,
				"rates provider is temporarily unavailable", err)
		}
		metrics.RecordUpstreamRequest(operation, "error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"upstream request failed after retries", err)
	}

	resp, ok := result.(*upstream.Response)
	if !ok || !resp.OK() {
		status := 0
		if ok {
			status = resp.StatusCode
		}
		metrics.RecordUpstreamRequest(operation, "error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("upstream returned status %d", status), nil)
	}

	metrics.RecordUpstreamRequest(operation, "success")
	return resp.Body, nil
}

// validateCurrencies rejects blank codes and explicit requests for
// denylisted symbols before any upstream call is made.
func (p *Frankfurter) validateCurrencies(ctx context.Context, base string, symbols []string) error {
	if base != "" && strings.TrimSpace(base) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"base currency must not be blank", nil)
	}
	for _, symbol := range symbols {
		if strings.TrimSpace(symbol) == "" {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"symbols must not contain blank entries", nil)
		}
	}

	requested := symbols
	if base != "" {
		requested = append([]string{base}, symbols...)
	}
	if offending := p.filter.Offending(requested); len(offending) > 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnsupportedSymbol,
			fmt.Sprintf("unsupported currency codes: %s", strings.Join(offending, ", ")), nil)
	}
	return nil
}

// buildQuery renders the recognized query parameters. Absent parameters are
// omitted; base always precedes symbols; symbols are comma-joined first and
// percent-encoded as one unit, so commas become %2C.
func buildQuery(base string, symbols []string) string {
	params := make([]string, 0, 2)
	if base != "" {
		params = append(params, "base="+url.QueryEscape(base))
	}
	if len(symbols) > 0 {
		params = append(params, "symbols="+url.QueryEscape(strings.Join(symbols, ",")))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}
