package rates_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fx-gateway/internal/domain/rates"
)

func historicalFixture(days int) *rates.HistoricalSnapshot {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(map[string]map[string]decimal.Decimal, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(rates.DateLayout)
		series[date] = map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.9)}
	}
	return &rates.HistoricalSnapshot{
		Base:      "USD",
		Rates:     series,
		StartDate: start.Format(rates.DateLayout),
		EndDate:   start.AddDate(0, 0, days-1).Format(rates.DateLayout),
	}
}

func TestPaginateMiddlePage(t *testing.T) {
	snap := historicalFixture(365)

	page, err := snap.Paginate(3, 50)
	require.NoError(t, err)

	require.Len(t, page.Records, 50)
	require.Equal(t, 3, page.CurrentPage)
	require.Equal(t, 50, page.PageSize)
	require.Equal(t, 8, page.TotalPages)
	require.Equal(t, 365, page.TotalRecords)

	// Records 101 through 150 of the ascending series.
	require.Equal(t, "2024-04-10", page.Records[0].Date)
	require.Equal(t, "2024-05-29", page.Records[49].Date)
}

func TestPaginateLastPageIsPartial(t *testing.T) {
	snap := historicalFixture(365)

	page, err := snap.Paginate(8, 50)
	require.NoError(t, err)
	require.Len(t, page.Records, 15)
}

func TestPaginatePastEndIsEmpty(t *testing.T) {
	snap := historicalFixture(10)

	page, err := snap.Paginate(5, 10)
	require.NoError(t, err)
	require.Empty(t, page.Records)
	require.Equal(t, 1, page.TotalPages)
	require.Equal(t, 10, page.TotalRecords)
}

func TestPaginateOrdersDatesAscending(t *testing.T) {
	snap := historicalFixture(30)

	page, err := snap.Paginate(1, 30)
	require.NoError(t, err)
	for i := 1; i < len(page.Records); i++ {
		require.Less(t, page.Records[i-1].Date, page.Records[i].Date)
	}
}

func TestPaginateRejectsBadInput(t *testing.T) {
	snap := historicalFixture(10)

	tests := []struct {
		page, size int
	}{
		{0, 10},
		{-1, 10},
		{1, 0},
		{1, -5},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("page=%d size=%d", tc.page, tc.size), func(t *testing.T) {
			_, err := snap.Paginate(tc.page, tc.size)
			require.Error(t, err)
		})
	}
}
