package rates_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fx-gateway/internal/domain/rates"
)

func TestSymbolFilterDefaultDenylist(t *testing.T) {
	filter := rates.NewSymbolFilter()

	require.True(t, filter.Denied("VES"))
	require.True(t, filter.Denied("ves"))
	require.True(t, filter.Denied(" kpw "))
	require.False(t, filter.Denied("EUR"))
}

func TestSymbolFilterCustomCodes(t *testing.T) {
	filter := rates.NewSymbolFilter("xyz")

	require.True(t, filter.Denied("XYZ"))
	require.False(t, filter.Denied("VES"), "custom codes replace the default list")
	require.Equal(t, []string{"XYZ"}, filter.List())
}

func TestSymbolFilterOffendingPreservesOrder(t *testing.T) {
	filter := rates.NewSymbolFilter()

	offending := filter.Offending([]string{"EUR", "ves", "USD", "IRR"})
	require.Equal(t, []string{"ves", "IRR"}, offending)
}

func TestSymbolFilterStrip(t *testing.T) {
	filter := rates.NewSymbolFilter()
	rateMap := map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.9),
		"VES": decimal.NewFromFloat(36.5),
		"SYP": decimal.NewFromFloat(13000),
	}

	stripped := filter.Strip(rateMap)

	require.Len(t, stripped, 1)
	require.Contains(t, stripped, "EUR")
}
