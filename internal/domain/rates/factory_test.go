package rates_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fx-gateway/internal/domain/rates"
	"fx-gateway/internal/utils/platformerrors"
)

type stubProvider struct {
	name string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Latest(ctx context.Context, base string, symbols []string) (*rates.RateSnapshot, error) {
	return &rates.RateSnapshot{Base: base}, nil
}

func (p *stubProvider) Historical(ctx context.Context, startDate, endDate, base string, symbols []string) (*rates.HistoricalSnapshot, error) {
	return &rates.HistoricalSnapshot{Base: base}, nil
}

func (p *stubProvider) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	return amount, nil
}

func TestFactoryCreateIsCaseInsensitive(t *testing.T) {
	factory := rates.NewFactory(&stubProvider{name: "Frankfurter"})

	for _, name := range []string{"frankfurter", "FRANKFURTER", " Frankfurter "} {
		provider, err := factory.Create(context.Background(), name)
		require.NoError(t, err)
		require.Equal(t, "Frankfurter", provider.Name())
	}
}

func TestFactoryCreateUnknownProvider(t *testing.T) {
	factory := rates.NewFactory(&stubProvider{name: "frankfurter"})

	_, err := factory.Create(context.Background(), "fixer")
	require.Error(t, err)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestFactoryAvailableIsSorted(t *testing.T) {
	factory := rates.NewFactory(&stubProvider{name: "zulu"}, &stubProvider{name: "alpha"})

	require.Equal(t, []string{"alpha", "zulu"}, factory.Available())
}
