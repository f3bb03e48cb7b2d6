package engine

import (
	"ladderbot/internal/models"

	"github.com/sirupsen/logrus"
)

func (e *Engine) logEntry() *logrus.Entry {
	entry := e.log.WithRunID(e.runID).WithField("component", "engine")
	if e.cfg != nil && e.cfg.Bot.Base != "" {
		entry = entry.WithField("pair", e.cfg.Bot.Base+"/"+e.cfg.Bot.Quote)
	}
	return entry
}

func (e *Engine) symbolEntry(symbol string) *logrus.Entry {
	return e.log.WithSymbol(symbol).WithFields(e.logEntry().Data)
}

func (e *Engine) orderEntry(order models.OrderRecord) *logrus.Entry {
	return e.log.WithOrderID(order.ID.String()).WithFields(e.symbolEntry(order.Symbol).Data).WithFields(logrus.Fields{
		"price":  order.Price.String(),
		"amount": order.Amount.String(),
		"status": order.Status,
	})
}
