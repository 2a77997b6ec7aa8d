package rates

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for all rate dates.
const DateLayout = "2006-01-02"

// RateSnapshot is a single day's rates for a base currency. Immutable once
// fetched; it disappears when the cache entry expires.
type RateSnapshot struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	AsOf      string                     `json:"as_of"`
	ExpiresAt time.Time                  `json:"expires_at"`
}

// Expiry implements the cache's expirable capability.
func (s RateSnapshot) Expiry() time.Time {
	return s.ExpiresAt
}

// HistoricalSnapshot is a date-range rate series for a base currency.
type HistoricalSnapshot struct {
	Base      string                                `json:"base"`
	Rates     map[string]map[string]decimal.Decimal `json:"rates"`
	StartDate string                                `json:"start_date"`
	EndDate   string                                `json:"end_date"`
	ExpiresAt time.Time                             `json:"expires_at"`
}

// Expiry implements the cache's expirable capability.
func (s HistoricalSnapshot) Expiry() time.Time {
	return s.ExpiresAt
}

// HistoricalRecord is one day of a paginated historical series.
type HistoricalRecord struct {
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// HistoricalPage is a 1-based page over a historical series, ordered by
// ascending date.
type HistoricalPage struct {
	Base         string             `json:"base"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Records      []HistoricalRecord `json:"records"`
	CurrentPage  int                `json:"current_page"`
	PageSize     int                `json:"page_size"`
	TotalPages   int                `json:"total_pages"`
	TotalRecords int                `json:"total_records"`
}

// Paginate slices the snapshot into a page. Dates are sorted ascending;
// totalPages is ceil(totalRecords / pageSize). A page index past the end
// yields an empty record list with the totals intact.
func (s *HistoricalSnapshot) Paginate(page, pageSize int) (*HistoricalPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be >= 1, got %d", pageSize)
	}

	dates := make([]string, 0, len(s.Rates))
	for date := range s.Rates {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	total := len(dates)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	records := make([]HistoricalRecord, 0, end-start)
	for _, date := range dates[start:end] {
		records = append(records, HistoricalRecord{Date: date, Rates: s.Rates[date]})
	}

	return &HistoricalPage{
		Base:         s.Base,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		Records:      records,
		CurrentPage:  page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		TotalRecords: total,
	}, nil
}
