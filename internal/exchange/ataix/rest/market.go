package rest

import (
	"context"
	"ladderbot/internal/exchange"
	"net/http"
)

func (c *Client) GetSymbols(ctx context.Context) ([]exchange.Symbol, error) {
	var out ataixResponse[[]symbolInfo]

	resp, err := c.call(ctx, http.MethodGet, "/api/symbols", nil, &out)
	if err != nil {
		return nil, err
	}
	if resp.failed() {
		return nil, httpError(http.MethodGet, "/api/symbols", resp)
	}

	symbols := make([]exchange.Symbol, 0, len(out.Result))
	for _, item := range out.Result {
		symbols = append(symbols, exchange.Symbol{
			Symbol:         item.Symbol.String(),
			Base:           item.Base.String(),
			Quote:          item.Quote.String(),
			MinTradeSize:   item.MinTradeSize.String(),
			TickSize:       item.TickSize.String(),
			Ask:            item.Ask.String(),
			PriceToCompare: item.PriceToCompare.String(),
		})
	}

	if len(symbols) == 0 {
		c.logEntry().WithField("body", string(resp.body)).Warn("Список символов пуст.")
	}
	return symbols, nil
}
