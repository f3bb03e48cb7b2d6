package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusUnknown   OrderStatus = "UNKNOWN"
)

// ParseOrderStatus принимает статус в любом регистре, включая написание "canceled".
func ParseOrderStatus(raw string) OrderStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "NEW":
		return OrderStatusNew
	case "FILLED":
		return OrderStatusFilled
	case "CANCELLED", "CANCELED":
		return OrderStatusCancelled
	default:
		return OrderStatusUnknown
	}
}

func (s *OrderStatus) UnmarshalText(text []byte) error {
	*s = ParseOrderStatus(string(text))
	return nil
}

// MarshalText writes an unset status as UNKNOWN so a saved file reloads
// to the same value.
func (s OrderStatus) MarshalText() ([]byte, error) {
	if s == "" {
		return []byte(OrderStatusUnknown), nil
	}
	return []byte(s), nil
}

// Terminal records are carried over without querying the exchange.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled
}

// UnknownOrderID is assigned when the exchange accepted an order but its
// response carried no recognisable identifier.
const UnknownOrderID OrderID = "unknown"

type OrderID string

func (id OrderID) IsKnown() bool {
	return id != "" && id != UnknownOrderID
}

func (id OrderID) String() string {
	return string(id)
}

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *OrderID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = OrderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = OrderID(n.String())
	return nil
}

type TradingPair struct {
	Symbol         string
	Base           string
	Quote          string
	TickSize       decimal.Decimal
	MinTradeSize   decimal.Decimal
	ReferencePrice decimal.Decimal
}

type LadderStep struct {
	OffsetPercent decimal.Decimal
	RawPrice      decimal.Decimal
	ClampedPrice  decimal.Decimal
	Cost          decimal.Decimal
	Clamped       bool
}

type OrderRecord struct {
	ID     OrderID         `json:"id"`
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
	Status OrderStatus     `json:"status"`
}

// Live records are still resting on the exchange as far as the bot knows.
func (o OrderRecord) Live() bool {
	return !o.Status.Terminal()
}
