package rates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fx-gateway/internal/domain/rates"
	"fx-gateway/internal/infrastructure/cache"
	"fx-gateway/internal/infrastructure/kvstore"
	"fx-gateway/internal/infrastructure/resilience"
	"fx-gateway/internal/infrastructure/upstream"
	"fx-gateway/internal/utils/platformerrors"
)

var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type requestLog struct {
	mu   sync.Mutex
	uris []string
}

func (l *requestLog) add(uri string) {
	l.mu.Lock()
	l.uris = append(l.uris, uri)
	l.mu.Unlock()
}

func (l *requestLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.uris)
}

func (l *requestLog) last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.uris) == 0 {
		return ""
	}
	return l.uris[len(l.uris)-1]
}

func newProviderFixture(t *testing.T, resCfg resilience.Config, handler http.HandlerFunc) (*rates.Frankfurter, *requestLog) {
	t.Helper()

	log := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r.URL.RequestURI())
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	now := func() time.Time { return testClock }
	pipeline, err := resilience.NewPipeline(resCfg, zerolog.Nop(), now)
	require.NoError(t, err)

	client := upstream.NewClient(server.URL, 5*time.Second, zerolog.Nop())
	fetcher := cache.NewFetcher(kvstore.NewMemory(now), zerolog.Nop(), now)

	provider := rates.NewFrankfurter(rates.FrankfurterConfig{
		LatestTTL:     30 * time.Minute,
		HistoricalTTL: 24 * time.Hour,
	}, client, pipeline, fetcher, rates.NewSymbolFilter(), zerolog.Nop(), now)

	return provider, log
}

func defaultResilience() resilience.Config {
	return resilience.Config{
		RetryCount:             0,
		BaseBackoffSeconds:     0,
		FailuresBeforeBreaking: 100,
		BreakDuration:          time.Minute,
	}
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestLatestQueryEncoding(t *testing.T) {
	provider, log := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"USD","date":"2025-05-30","rates":{"EUR":0.9,"GBP":0.8}}`))

	_, err := provider.Latest(context.Background(), "USD", []string{"EUR", "GBP"})
	require.NoError(t, err)
	require.Equal(t, "/latest?base=USD&symbols=EUR%2CGBP", log.last())
}

func TestLatestOmitsAbsentParameters(t *testing.T) {
	provider, log := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"EUR","date":"2025-05-30","rates":{"USD":1.1}}`))

	_, err := provider.Latest(context.Background(), "", nil)
	require.NoError(t, err)
	require.Equal(t, "/latest", log.last())
}

func TestLatestStripsDenylistedRates(t *testing.T) {
	provider, _ := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"USD","date":"2025-05-30","rates":{"EUR":0.9,"VES":36.5,"SYP":13000}}`))

	snap, err := provider.Latest(context.Background(), "USD", nil)
	require.NoError(t, err)
	require.Contains(t, snap.Rates, "EUR")
	require.NotContains(t, snap.Rates, "VES")
	require.NotContains(t, snap.Rates, "SYP")
}

func TestLatestServedFromCacheOnSecondCall(t *testing.T) {
	provider, log := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"USD","date":"2025-05-30","rates":{"EUR":0.9}}`))

	_, err := provider.Latest(context.Background(), "USD", []string{"EUR"})
	require.NoError(t, err)
	_, err = provider.Latest(context.Background(), "USD", []string{"EUR"})
	require.NoError(t, err)

	require.Equal(t, 1, log.count())
}

func TestLatestRejectsDenylistedRequest(t *testing.T) {
	provider, log := newProviderFixture(t, defaultResilience(), serveJSON(`{}`))

	_, err := provider.Latest(context.Background(), "USD", []string{"EUR", "VES"})
	require.Error(t, err)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnsupportedSymbol))
	require.Equal(t, 0, log.count(), "denylisted requests never reach the upstream")
}

func TestLatestUpstreamFailureAfterRetries(t *testing.T) {
	cfg := defaultResilience()
	cfg.RetryCount = 1

	provider, log := newProviderFixture(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := provider.Latest(context.Background(), "USD", nil)
	require.Error(t, err)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	require.Equal(t, 2, log.count())
}

func TestLatestCircuitOpenMapsToUnavailable(t *testing.T) {
	cfg := defaultResilience()
	cfg.FailuresBeforeBreaking = 1

	provider, log := newProviderFixture(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := provider.Latest(context.Background(), "USD", nil)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))

	_, err = provider.Latest(context.Background(), "USD", nil)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnavailable))
	require.Equal(t, 1, log.count(), "the open circuit must fail fast")
}

func TestLatestMalformedPayload(t *testing.T) {
	provider, _ := newProviderFixture(t, defaultResilience(), serveJSON(`{"base":"USD"}`))

	_, err := provider.Latest(context.Background(), "USD", nil)
	require.Error(t, err)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestHistoricalPath(t *testing.T) {
	provider, log := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"USD","start_date":"2025-05-01","end_date":"2025-05-02","rates":{"2025-05-01":{"EUR":0.9},"2025-05-02":{"EUR":0.91}}}`))

	snap, err := provider.Historical(context.Background(), "2025-05-01", "2025-05-02", "USD", []string{"EUR"})
	require.NoError(t, err)
	require.Equal(t, "/2025-05-01..2025-05-02?base=USD&symbols=EUR", log.last())
	require.Len(t, snap.Rates, 2)
}

func TestHistoricalOpenEndedPath(t *testing.T) {
	provider, log := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"EUR","start_date":"2025-05-01","end_date":"2025-06-01","rates":{"2025-05-01":{"USD":1.1}}}`))

	_, err := provider.Historical(context.Background(), "2025-05-01", "", "", nil)
	require.NoError(t, err)
	require.Equal(t, "/2025-05-01..", log.last())
}

func TestHistoricalStripsDenylistedRates(t *testing.T) {
	provider, _ := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"USD","start_date":"2025-05-01","end_date":"2025-05-01","rates":{"2025-05-01":{"EUR":0.9,"VES":36.5}}}`))

	snap, err := provider.Historical(context.Background(), "2025-05-01", "2025-05-01", "USD", nil)
	require.NoError(t, err)
	require.NotContains(t, snap.Rates["2025-05-01"], "VES")
}

func TestHistoricalValidation(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "malformed start", start: "01-05-2025", end: ""},
		{name: "malformed end", start: "2025-05-01", end: "2025/05/10"},
		{name: "start in the future", start: "2025-06-02", end: ""},
		{name: "end before start", start: "2025-05-10", end: "2025-05-01"},
		{name: "range over 365 days", start: "2024-01-01", end: "2025-01-10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider, log := newProviderFixture(t, defaultResilience(), serveJSON(`{}`))

			_, err := provider.Historical(context.Background(), tc.start, tc.end, "", nil)
			require.Error(t, err)
			require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
			require.Equal(t, 0, log.count())
		})
	}
}

func TestConvert(t *testing.T) {
	provider, _ := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"USD","date":"2025-05-30","rates":{"EUR":0.85}}`))

	result, err := provider.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Equal(t, "85.00", result.StringFixed(2))
}

func TestConvertRoundsHalfAwayFromZero(t *testing.T) {
	provider, _ := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"USD","date":"2025-05-30","rates":{"JPY":142.125}}`))

	result, err := provider.Convert(context.Background(), "USD", "JPY", decimal.NewFromInt(1))
	require.NoError(t, err)
	require.Equal(t, "142.13", result.StringFixed(2))
}

func TestConvertUnknownTarget(t *testing.T) {
	provider, _ := newProviderFixture(t, defaultResilience(),
		serveJSON(`{"base":"USD","date":"2025-05-30","rates":{"GBP":0.8}}`))

	_, err := provider.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(10))
	require.Error(t, err)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestConvertRejectsNonPositiveAmounts(t *testing.T) {
	provider, log := newProviderFixture(t, defaultResilience(), serveJSON(`{}`))

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := provider.Convert(context.Background(), "USD", "EUR", amount)
		require.Error(t, err)
		require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	}
	require.Equal(t, 0, log.count())
}
