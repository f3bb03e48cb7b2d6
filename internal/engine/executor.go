package engine

import (
	"context"
	"fmt"
	"ladderbot/internal/exchange"
	"ladderbot/internal/models"
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceOrder submits one limit buy and turns the acknowledgement into a NEW
// order record.
func (e *Engine) PlaceOrder(ctx context.Context, symbol string, price, amount decimal.Decimal) (models.OrderRecord, error) {
	req := exchange.OrderRequest{
		Symbol:   symbol,
		Side:     exchange.OrderSideBuy,
		Type:     exchange.OrderTypeLimit,
		Quantity: RoundQty(amount),
		Price:    price.RoundBank(pricePlaces),
	}

	e.symbolEntry(req.Symbol).WithFields(map[string]interface{}{
		"price": req.Price.String(),
		"qty":   req.Quantity.String(),
	}).Info("Постановка лимитного ордера.")

	ack, err := e.client.CreateOrder(ctx, req)
	if err != nil {
		return models.OrderRecord{}, fmt.Errorf("Не удалось создать ордер %s по цене %s: %w", symbol, req.Price, err)
	}
	if !ack.Status {
		return models.OrderRecord{}, &exchange.OrderRejectedError{Message: ack.Message, Raw: ack.Raw}
	}

	id := extractOrderID(ack)
	if !id.IsKnown() {
		e.logEntry().WithField("response", ack.Raw).Warn("Ордер принят, но идентификатор не найден. Требуется ручная сверка.")
	} else {
		e.log.WithOrderID(id.String()).WithFields(e.symbolEntry(symbol).Data).Info("Ордер поставлен.")
	}

	return models.OrderRecord{
		ID:     id,
		Symbol: symbol,
		Price:  req.Price,
		Amount: req.Quantity,
		Status: models.OrderStatusNew,
	}, nil
}

func extractOrderID(ack exchange.OrderAck) models.OrderID {
	for _, candidate := range []string{ack.ResultOrderID, ack.ResultID, ack.ID, ack.OrderID} {
		if id := strings.TrimSpace(candidate); id != "" {
			return models.OrderID(id)
		}
	}
	return models.UnknownOrderID
}
