package rates

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"fx-gateway/internal/utils/platformerrors"
)

// Provider is the capability every upstream rates source implements. Adding
// a provider means registering a new implementation with the factory; there
// is no dynamic plugin loading.
type Provider interface {
	Name() string
	Latest(ctx context.Context, base string, symbols []string) (*RateSnapshot, error)
	Historical(ctx context.Context, startDate, endDate, base string, symbols []string) (*HistoricalSnapshot, error)
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Factory resolves provider names to configured instances against a fixed
// registry.
type Factory struct {
	providers map[string]Provider
}

// NewFactory registers the given providers keyed by their case-folded names.
func NewFactory(providers ...Provider) *Factory {
	registry := make(map[string]Provider, len(providers))
	for _, provider := range providers {
		registry[strings.ToLower(provider.Name())] = provider
	}
	return &Factory{providers: registry}
}

// Available returns the registered provider names, sorted.
func (f *Factory) Available() []string {
	names := make([]string, 0, len(f.providers))
	for name := range f.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create resolves a provider by name, case-insensitively. Unknown names are
// a validation error; a registered but unwired name is an internal error.
func (f *Factory) Create(ctx context.Context, name string) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	provider, ok := f.providers[key]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown rate provider %q, available: %s", name, strings.Join(f.Available(), ", ")), nil)
	}
	if provider == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			fmt.Sprintf("rate provider %q is registered but not configured", name), nil)
	}
	return provider, nil
}
