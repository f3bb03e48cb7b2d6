package rest

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	pricePlaces = 6
	qtyPlaces   = 8
)

// formatNumber renders a decimal as a bare JSON number, rounded half-even.
func formatNumber(value decimal.Decimal, places int32) json.Number {
	return json.Number(value.RoundBank(places).String())
}
