package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"ladderbot/internal/config"
	"ladderbot/internal/exchange"
	"ladderbot/internal/logger"
	"ladderbot/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var ErrLiveOrders = errors.New("В хранилище есть активные ордера")

// OrderStore persists the whole tracked order set. Every Save replaces the
// previous snapshot.
type OrderStore interface {
	Load() ([]models.OrderRecord, error)
	Save(orders []models.OrderRecord) error
}

type Engine struct {
	cfg     *config.Config
	client  exchange.Client
	store   OrderStore
	log     *logger.Logger
	metrics *Metrics

	runID string
}

func New(cfg *config.Config, client exchange.Client, store OrderStore, log *logger.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		client:  client,
		store:   store,
		log:     log,
		metrics: NewMetrics(prometheus.NewRegistry()),
	}
}

func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// PlanRun places a fresh ladder and writes it as the new order snapshot.
// Resolver and planner failures abort the run; a rejected rung is skipped.
func (e *Engine) PlanRun(ctx context.Context) ([]models.OrderRecord, error) {
	e.runID = newRunID()

	if !e.cfg.Runtime.Force {
		existing, err := e.store.Load()
		switch {
		case err == nil:
			if live := countLive(existing); live > 0 {
				return nil, fmt.Errorf("%w: %d, запустите сверку или используйте --force", ErrLiveOrders, live)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	balance, err := e.ResolveBalance(ctx)
	if err != nil {
		return nil, err
	}
	pair, err := e.ResolvePair(ctx)
	if err != nil {
		return nil, err
	}

	steps, err := PlanLadder(pair, balance, decimals(e.cfg.Bot.Percents), decimal.NewFromFloat(e.cfg.Bot.MaxDeviation))
	if err != nil {
		return nil, err
	}

	e.logEntry().WithFields(map[string]interface{}{
		"reference": pair.ReferencePrice.String(),
		"balance":   balance.String(),
		"planned":   len(steps),
		"requested": len(e.cfg.Bot.Percents),
	}).Info("План сетки ордеров.")

	for i, step := range steps {
		entry := e.logEntry().WithFields(map[string]interface{}{
			"index":   i + 1,
			"percent": step.OffsetPercent.String(),
			"raw":     step.RawPrice.String(),
			"price":   step.ClampedPrice.String(),
			"cost":    step.Cost.String(),
		})
		if step.Clamped {
			entry.Warn("Цена ниже допустимого отклонения, заменена минимальной.")
		} else {
			entry.Debug("Ступень сетки.")
		}
	}
	if len(steps) < len(e.cfg.Bot.Percents) {
		e.logEntry().WithField("skipped", len(e.cfg.Bot.Percents)-len(steps)).Warn("Недостаточно средств для оставшихся ступеней.")
	}

	if e.cfg.Runtime.DryRun {
		e.logEntry().Info("Пробный запуск: ордера не выставлены, хранилище не изменено.")
		return nil, nil
	}

	orders := make([]models.OrderRecord, 0, len(steps))
	var interrupted error
	for i, step := range steps {
		if i > 0 {
			if interrupted = sleepCtx(ctx, e.cfg.Bot.QueryDelay); interrupted != nil {
				break
			}
		}

		order, err := e.PlaceOrder(ctx, pair.Symbol, step.ClampedPrice, pair.MinTradeSize)
		if err != nil {
			e.metrics.orderRejected(phasePlan)
			e.logEntry().WithError(err).WithField("price", step.ClampedPrice.String()).Warn("Ступень пропущена: ордер не создан.")
			continue
		}
		e.metrics.orderPlaced(phasePlan)
		orders = append(orders, order)
	}

	if err := e.store.Save(orders); err != nil {
		return orders, err
	}
	e.metrics.trackedOrders.Set(float64(countLive(orders)))

	e.logEntry().WithField("orders", len(orders)).Info("Сетка выставлена и сохранена.")
	return orders, interrupted
}

// ReconcileRun loads the snapshot, reconciles it against the exchange and
// writes the result back in full.
func (e *Engine) ReconcileRun(ctx context.Context) (Report, error) {
	e.runID = newRunID()

	orders, err := e.store.Load()
	if err != nil {
		return Report{}, err
	}

	tick := e.repriceTick(ctx)
	updated, report := e.Reconcile(ctx, orders, tick)
	e.metrics.observePass(report, countLive(updated))

	if e.cfg.Runtime.DryRun {
		e.logEntry().Info("Пробный запуск: хранилище не изменено.")
		return report, ctx.Err()
	}

	if err := e.store.Save(updated); err != nil {
		return report, err
	}

	e.logEntry().WithFields(map[string]interface{}{
		"total":      report.Total,
		"filled":     report.Filled,
		"repriced":   report.Repriced,
		"retained":   report.Retained,
		"unexpected": report.Unexpected,
		"dropped":    report.Dropped,
	}).Info("Сверка завершена, хранилище обновлено.")

	return report, ctx.Err()
}

// repriceTick prefers the catalog's tick size and falls back to the
// configured one when the catalog cannot be read.
func (e *Engine) repriceTick(ctx context.Context) decimal.Decimal {
	pair, err := e.ResolvePair(ctx)
	if err != nil {
		e.logEntry().WithError(err).Warn("Не удалось получить параметры пары, используется tick_size из конфигурации.")
		return decimal.NewFromFloat(e.cfg.Bot.TickSize)
	}
	return pair.TickSize
}

func countLive(orders []models.OrderRecord) int {
	n := 0
	for _, o := range orders {
		if o.Live() {
			n++
		}
	}
	return n
}
