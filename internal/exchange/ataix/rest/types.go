package rest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type ataixResponse[T any] struct {
	Status  truthy `json:"status"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

type createOrderResponse struct {
	Status  truthy          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	ID      jsonText        `json:"id"`
	OrderID jsonText        `json:"orderId"`
}

type createOrderResult struct {
	OrderID jsonText `json:"orderID"`
	ID      jsonText `json:"id"`
}

type symbolInfo struct {
	Symbol         jsonText `json:"symbol"`
	Base           jsonText `json:"base"`
	Quote          jsonText `json:"quote"`
	MinTradeSize   jsonText `json:"minTradeSize"`
	TickSize       jsonText `json:"tickSize"`
	Ask            jsonText `json:"ask"`
	PriceToCompare jsonText `json:"priceToCompare"`
}

type balancesResult struct {
	Available map[string]jsonText `json:"available"`
}

type orderResult struct {
	Status jsonText `json:"status"`
}

// jsonText holds a scalar the exchange may send either quoted or bare.
type jsonText string

func (t *jsonText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = jsonText(s)
	default:
		*t = jsonText(data)
	}
	return nil
}

func (t jsonText) String() string {
	return strings.TrimSpace(string(t))
}

// truthy mirrors how the exchange's status flag is read: booleans as is,
// strings and numbers by their usual truth value.
type truthy bool

func (b *truthy) UnmarshalJSON(data []byte) error {
	var text jsonText
	if err := text.UnmarshalJSON(data); err != nil {
		return err
	}
	s := strings.ToLower(text.String())
	switch s {
	case "", "false", "0", "no", "error", "fail", "failed":
		*b = false
		return nil
	case "true", "ok", "yes", "success":
		*b = true
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*b = f != 0
		return nil
	}
	*b = true
	return nil
}
