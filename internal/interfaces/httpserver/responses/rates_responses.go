package responses

import (
	"github.com/shopspring/decimal"

	"fx-gateway/internal/domain/rates"
)

// LatestRatesResponse is the wire shape of a latest-rates result.
type LatestRatesResponse struct {
	Provider string                     `json:"provider"`
	Base     string                     `json:"base"`
	Date     string                     `json:"date"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// NewLatestRatesResponse converts a domain snapshot.
func NewLatestRatesResponse(provider string, snap *rates.RateSnapshot) LatestRatesResponse {
	return LatestRatesResponse{
		Provider: provider,
		Base:     snap.Base,
		Date:     snap.AsOf,
		Rates:    snap.Rates,
	}
}

// HistoricalRecordResponse is one dated entry of a historical page.
type HistoricalRecordResponse struct {
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// HistoricalRatesResponse is a paginated historical result. Records are in
// ascending date order.
type HistoricalRatesResponse struct {
	Provider     string                     `json:"provider"`
	Base         string                     `json:"base"`
	StartDate    string                     `json:"startDate"`
	EndDate      string                     `json:"endDate"`
	Records      []HistoricalRecordResponse `json:"records"`
	CurrentPage  int                        `json:"currentPage"`
	PageSize     int                        `json:"pageSize"`
	TotalPages   int                        `json:"totalPages"`
	TotalRecords int                        `json:"totalRecords"`
}

// NewHistoricalRatesResponse converts a domain page.
func NewHistoricalRatesResponse(provider string, page *rates.HistoricalPage) HistoricalRatesResponse {
	records := make([]HistoricalRecordResponse, 0, len(page.Records))
	for _, record := range page.Records {
		records = append(records, HistoricalRecordResponse{Date: record.Date, Rates: record.Rates})
	}
	return HistoricalRatesResponse{
		Provider:     provider,
		Base:         page.Base,
		StartDate:    page.StartDate,
		EndDate:      page.EndDate,
		Records:      records,
		CurrentPage:  page.CurrentPage,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
		TotalRecords: page.TotalRecords,
	}
}

// ConvertResponse is the wire shape of a conversion result. The converted
// amount is rounded to 2 decimal places.
type ConvertResponse struct {
	Provider string          `json:"provider"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Result   decimal.Decimal `json:"result"`
}

// ProvidersResponse lists the registered rate providers.
type ProvidersResponse struct {
	Default   string   `json:"default"`
	Providers []string `json:"providers"`
}
