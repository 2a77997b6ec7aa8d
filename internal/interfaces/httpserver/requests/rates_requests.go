package requests

import "strings"

// LatestRatesRequest binds the latest-rates query parameters. Symbols is a
// comma-separated list; both parameters are optional.
type LatestRatesRequest struct {
	Base     string `form:"base" binding:"omitempty,alpha,len=3"`
	Symbols  string `form:"symbols" binding:"omitempty,symbollist"`
	Provider string `form:"provider"`
}

// HistoricalRatesRequest binds the historical query parameters. The start
// date is required; a blank end date means "until today".
type HistoricalRatesRequest struct {
	Start    string `form:"start" binding:"required,datetime=2006-01-02"`
	End      string `form:"end" binding:"omitempty,datetime=2006-01-02"`
	Base     string `form:"base" binding:"omitempty,alpha,len=3"`
	Symbols  string `form:"symbols" binding:"omitempty,symbollist"`
	Provider string `form:"provider"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=50" binding:"min=1,max=366"`
}

// ConvertRequest binds the conversion query parameters.
type ConvertRequest struct {
	From     string `form:"from" binding:"required,alpha,len=3"`
	To       string `form:"to" binding:"required,alpha,len=3"`
	Amount   string `form:"amount" binding:"required"`
	Provider string `form:"provider"`
}

// SplitSymbols turns a comma-separated symbols parameter into a slice,
// dropping empty segments.
func SplitSymbols(symbols string) []string {
	if symbols == "" {
		return nil
	}
	parts := strings.Split(symbols, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
