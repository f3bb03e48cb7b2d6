package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

type OrderSide string
type OrderType string

const (
	OrderSideBuy   OrderSide = "buy"
	OrderTypeLimit OrderType = "limit"
)

// Symbol is one catalog entry as the exchange reports it. Numeric fields are
// kept as text so the caller decides how to treat absent or malformed values.
type Symbol struct {
	Symbol         string
	Base           string
	Quote          string
	MinTradeSize   string
	TickSize       string
	Ask            string
	PriceToCompare string
}

type OrderRequest struct {
	Symbol   string
	Side     OrderSide
	Type     OrderType
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// OrderAck is the normalised create-order response. The identifier fields
// mirror the shapes the exchange has been seen to return; any of them may be
// empty.
type OrderAck struct {
	Status        bool
	Message       string
	ResultOrderID string
	ResultID      string
	ID            string
	OrderID       string
	Raw           string
}

type Client interface {
	GetBalances(ctx context.Context) (map[string]string, error)
	GetSymbols(ctx context.Context) ([]Symbol, error)
	CreateOrder(ctx context.Context, req OrderRequest) (OrderAck, error)
	GetOrderStatus(ctx context.Context, orderID string) (string, error)
	CancelOrder(ctx context.Context, orderID string) error
}
