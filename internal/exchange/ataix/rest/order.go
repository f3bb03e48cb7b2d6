package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"ladderbot/internal/exchange"
	"net/http"
	"net/url"
	"strings"
)

func (c *Client) CreateOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderAck, error) {
	body := map[string]any{
		"symbol":   req.Symbol,
		"side":     req.Side,
		"type":     req.Type,
		"quantity": formatNumber(req.Quantity, qtyPlaces),
		"price":    formatNumber(req.Price, pricePlaces),
	}

	var out createOrderResponse

	resp, err := c.call(ctx, http.MethodPost, "/api/orders", body, &out)
	if err != nil {
		return exchange.OrderAck{}, err
	}

	ack := exchange.OrderAck{
		Status:  bool(out.Status),
		Message: out.Message,
		ID:      out.ID.String(),
		OrderID: out.OrderID.String(),
		Raw:     string(resp.body),
	}

	var result createOrderResult
	if len(out.Result) > 0 && json.Unmarshal(out.Result, &result) == nil {
		ack.ResultOrderID = result.OrderID.String()
		ack.ResultID = result.ID.String()
	}

	return ack, nil
}

// GetOrderStatus returns the order's status string as reported by the
// exchange. A response with a false status flag means the exchange does not
// know the order.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	path := "/api/orders/" + url.PathEscape(orderID)

	var out ataixResponse[orderResult]

	resp, err := c.call(ctx, http.MethodGet, path, nil, &out)
	if err != nil {
		return "", err
	}
	if !out.Status {
		return "", fmt.Errorf("%w: %s: %s (ответ: %s)", exchange.ErrOrderNotFound, orderID, out.Message, resp.body)
	}

	status := strings.ToLower(out.Result.Status.String())
	if status == "" {
		status = "unknown"
	}
	return status, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	path := "/api/orders/" + url.PathEscape(orderID)

	var out ataixResponse[json.RawMessage]

	resp, err := c.call(ctx, http.MethodDelete, path, nil, &out)
	if err != nil {
		return err
	}
	if !out.Status {
		return fmt.Errorf("%w: %s: %s (ответ: %s)", exchange.ErrCancelFailed, orderID, out.Message, resp.body)
	}
	return nil
}
