package requests

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("symbollist", validateSymbolList)
	}
}

// validateSymbolList accepts a comma-separated list of 3-letter currency
// codes, e.g. "EUR,GBP". Whether a code is actually supported is decided in
// the domain layer; this only rejects inputs that cannot be currency codes.
func validateSymbolList(fl validator.FieldLevel) bool {
	for _, code := range strings.Split(fl.Field().String(), ",") {
		code = strings.TrimSpace(code)
		if len(code) != 3 {
			return false
		}
		for _, r := range code {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return false
			}
		}
	}
	return true
}
