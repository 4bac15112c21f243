// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("money", validateMoney)
		_ = v.RegisterValidation("trade_kind", validateTradeKind)
	}
}

// validateMoney accepts a decimal string with at most two fractional digits
// and a non-negative value, e.g. "10", "10.5", "10.50".
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.Exponent() >= -2
}

func validateTradeKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BUY", "SELL", "SELL_REVENUE":
		return true
	}
	return false
}
