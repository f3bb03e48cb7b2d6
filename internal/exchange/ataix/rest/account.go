package rest

import (
	"context"
	"fmt"
	"ladderbot/internal/exchange"
	"net/http"
)

// GetBalances returns the available amount per currency code as the exchange
// reports it.
func (c *Client) GetBalances(ctx context.Context) (map[string]string, error) {
	var out ataixResponse[balancesResult]

	resp, err := c.call(ctx, http.MethodGet, "/api/user/balances", nil, &out)
	if err != nil {
		return nil, err
	}
	if resp.failed() {
		return nil, httpError(http.MethodGet, "/api/user/balances", resp)
	}
	if out.Result.Available == nil {
		return nil, fmt.Errorf("%w: result.available (ответ: %s)", exchange.ErrFieldMissing, resp.body)
	}

	balances := make(map[string]string, len(out.Result.Available))
	for coin, amount := range out.Result.Available {
		balances[coin] = amount.String()
	}
	return balances, nil
}
