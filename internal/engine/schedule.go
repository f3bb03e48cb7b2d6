package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/robfig/cron/v3"
)

// Start runs one pass immediately and then one per schedule tick until ctx is
// cancelled. Passes never overlap.
func (e *Engine) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(e.log.WithComponent("scheduler")))))
	if _, err := c.AddFunc(e.cfg.Runtime.Schedule, func() { e.runPass(ctx) }); err != nil {
		return fmt.Errorf("Некорректное расписание %q: %w", e.cfg.Runtime.Schedule, err)
	}

	e.logEntry().WithField("schedule", e.cfg.Runtime.Schedule).Info("Планировщик запущен.")
	e.runPass(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	e.logEntry().Info("Планировщик остановлен.")
	return nil
}

// runPass plans a ladder when no snapshot exists yet and reconciles
// otherwise. A snapshot with no live orders means the ladder is finished and
// nothing is placed until an operator plans again.
func (e *Engine) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	orders, err := e.store.Load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if _, err := e.PlanRun(ctx); err != nil {
			e.logEntry().WithError(err).Error("Не удалось выставить сетку.")
		}
		return
	case err != nil:
		e.logEntry().WithError(err).Error("Не удалось прочитать хранилище ордеров.")
		return
	case countLive(orders) == 0:
		e.logEntry().Info("Активных ордеров нет, сверка не требуется.")
		return
	}

	if _, err := e.ReconcileRun(ctx); err != nil && !errors.Is(err, context.Canceled) {
		e.logEntry().WithError(err).Error("Сверка завершилась с ошибкой.")
	}
}
