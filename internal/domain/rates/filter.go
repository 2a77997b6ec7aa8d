package rates

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// defaultDenylist holds the currency codes the upstream cannot serve
// reliably. They are stripped from responses and rejected when requested
// explicitly.
var defaultDenylist = []string{"BYN", "CUP", "IRR", "KPW", "SDG", "SYP", "VES"}

// SymbolFilter is a static denylist of unsupported currency codes.
type SymbolFilter struct {
	denied map[string]struct{}
}

// NewSymbolFilter builds a filter over the given codes; with no arguments it
// uses the default denylist.
func NewSymbolFilter(codes ...string) *SymbolFilter {
	if len(codes) == 0 {
		codes = defaultDenylist
	}
	denied := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		denied[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}
	return &SymbolFilter{denied: denied}
}

// List returns the denylisted codes, sorted.
func (f *SymbolFilter) List() []string {
	codes := make([]string, 0, len(f.denied))
	for code := range f.denied {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Denied reports whether a code is denylisted. Matching is case-insensitive.
func (f *SymbolFilter) Denied(code string) bool {
	_, ok := f.denied[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Offending returns the subset of codes that are denylisted, preserving
// request order.
func (f *SymbolFilter) Offending(codes []string) []string {
	var offending []string
	for _, code := range codes {
		if f.Denied(code) {
			offending = append(offending, code)
		}
	}
	return offending
}

// Strip removes every denylisted key from the rates map in place and returns
// the same map.
func (f *SymbolFilter) Strip(rateMap map[string]decimal.Decimal) map[string]decimal.Decimal {
	for code := range rateMap {
		if f.Denied(code) {
			delete(rateMap, code)
		}
	}
	return rateMap
}
