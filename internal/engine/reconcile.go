package engine

import (
	"context"
	"ladderbot/internal/models"
	"strings"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeFilled     Outcome = "filled"
	OutcomeRepriced   Outcome = "repriced"
	OutcomeRetained   Outcome = "retained"
	OutcomeUnexpected Outcome = "unexpected"
	OutcomeDropped    Outcome = "dropped"
)

type Report struct {
	Total      int
	Filled     int
	Repriced   int
	Retained   int
	Unexpected int
	Dropped    int
}

func (r *Report) add(o Outcome) {
	switch o {
	case OutcomeFilled:
		r.Filled++
	case OutcomeRepriced:
		r.Repriced++
	case OutcomeRetained:
		r.Retained++
	case OutcomeUnexpected:
		r.Unexpected++
	case OutcomeDropped:
		r.Dropped++
	}
}

// Reconcile visits orders in stored order and returns the next snapshot.
// Every input record yields exactly one output record except when a cancelled
// order could not be re-placed. If ctx is cancelled mid-pass the unvisited
// records are carried over untouched.
func (e *Engine) Reconcile(ctx context.Context, orders []models.OrderRecord, tick decimal.Decimal) ([]models.OrderRecord, Report) {
	report := Report{Total: len(orders)}
	out := make([]models.OrderRecord, 0, len(orders))

	queried := false
	for i, order := range orders {
		if ctx.Err() != nil {
			e.logEntry().WithField("remaining", len(orders)-i).Warn("Сверка прервана, оставшиеся ордера сохранены без изменений.")
			for _, rest := range orders[i:] {
				out = append(out, rest)
				report.add(OutcomeRetained)
			}
			break
		}

		switch {
		case order.Status.Terminal():
			out = append(out, order)
			report.add(OutcomeRetained)
			continue
		case !order.ID.IsKnown():
			e.orderEntry(order).Warn("Ордер без идентификатора, требуется ручная сверка.")
			out = append(out, order)
			report.add(OutcomeUnexpected)
			continue
		}

		if queried {
			if err := sleepCtx(ctx, e.cfg.Bot.QueryDelay); err != nil {
				out = append(out, order)
				report.add(OutcomeRetained)
				continue
			}
		}
		queried = true

		next, outcome := e.reconcileOne(ctx, order, tick)
		report.add(outcome)
		if outcome != OutcomeDropped {
			out = append(out, next)
		}
	}

	return out, report
}

func (e *Engine) reconcileOne(ctx context.Context, order models.OrderRecord, tick decimal.Decimal) (models.OrderRecord, Outcome) {
	entry := e.orderEntry(order)

	status, err := e.client.GetOrderStatus(ctx, order.ID.String())
	if err != nil {
		entry.WithError(err).Warn("Статус ордера не получен, ордер оставлен без изменений.")
		return order, OutcomeRetained
	}

	switch strings.ToLower(strings.TrimSpace(status)) {
	case "filled":
		entry.Info("Ордер исполнен.")
		order.Status = models.OrderStatusFilled
		return order, OutcomeFilled
	case "new":
		return e.cancelAndReprice(ctx, order, tick)
	default:
		entry.WithField("exchange_status", status).Warn("Неожиданный статус ордера.")
		return order, OutcomeUnexpected
	}
}

func (e *Engine) cancelAndReprice(ctx context.Context, order models.OrderRecord, tick decimal.Decimal) (models.OrderRecord, Outcome) {
	entry := e.orderEntry(order)
	newPrice := RepricePrice(order.Price, decimal.NewFromFloat(e.cfg.Bot.RepriceStep), tick)

	if e.cfg.Runtime.DryRun {
		entry.WithField("new_price", newPrice.String()).Info("Пробный запуск: ордер был бы отменён и переставлен.")
		return order, OutcomeRetained
	}

	entry.Info("Ордер активен, но не исполнен. Отмена.")
	if err := e.client.CancelOrder(ctx, order.ID.String()); err != nil {
		entry.WithError(err).Warn("Не удалось отменить ордер, повтор при следующей сверке.")
		return order, OutcomeRetained
	}
	order.Status = models.OrderStatusCancelled
	entry.Info("Ордер отменён.")

	replacement, err := e.PlaceOrder(ctx, order.Symbol, newPrice, order.Amount)
	if err != nil {
		e.metrics.orderRejected(phaseReprice)
		entry.WithError(err).WithField("new_price", newPrice.String()).Warn("Новый ордер не создан, ступень потеряна.")
		return order, OutcomeDropped
	}
	e.metrics.orderPlaced(phaseReprice)

	e.orderEntry(replacement).WithField("replaces", order.ID.String()).Info("Ордер переставлен по новой цене.")
	return replacement, OutcomeRepriced
}
