package engine

import (
	"context"
	"fmt"
	"ladderbot/internal/exchange"
	"ladderbot/internal/models"
	"strings"

	"github.com/shopspring/decimal"
)

// ResolveBalance returns the spendable quote-currency balance. A missing
// currency is an error, never a zero balance.
func (e *Engine) ResolveBalance(ctx context.Context) (decimal.Decimal, error) {
	balances, err := e.client.GetBalances(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Не удалось получить баланс: %w", err)
	}

	quote := e.cfg.Bot.Quote
	raw, ok := balances[quote]
	if !ok {
		for coin, amount := range balances {
			if strings.EqualFold(coin, quote) {
				raw, ok = amount, true
				break
			}
		}
	}
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: баланс %s", exchange.ErrFieldMissing, quote)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: баланс %s=%q: %v", exchange.ErrMalformedResponse, quote, raw, err)
	}

	e.logEntry().WithField("balance", amount.String()).Info(fmt.Sprintf("Баланс %s получен.", quote))
	return amount, nil
}

// ResolvePair finds the configured base/quote pair in the symbol catalog.
func (e *Engine) ResolvePair(ctx context.Context) (models.TradingPair, error) {
	symbols, err := e.client.GetSymbols(ctx)
	if err != nil {
		return models.TradingPair{}, fmt.Errorf("Не удалось получить список символов: %w", err)
	}

	base, quote := e.cfg.Bot.Base, e.cfg.Bot.Quote
	if len(symbols) == 0 {
		return models.TradingPair{}, fmt.Errorf("%w: %s/%s, каталог пуст", exchange.ErrPairNotFound, base, quote)
	}

	for _, s := range symbols {
		if strings.EqualFold(s.Base, base) && strings.EqualFold(s.Quote, quote) {
			return e.buildPair(s)
		}
	}
	return models.TradingPair{}, fmt.Errorf("%w: %s/%s", exchange.ErrPairNotFound, base, quote)
}

func (e *Engine) buildPair(s exchange.Symbol) (models.TradingPair, error) {
	minTradeSize, err := optionalDecimal("minTradeSize", s.MinTradeSize)
	if err != nil {
		return models.TradingPair{}, err
	}
	if minTradeSize.Sign() <= 0 {
		minTradeSize = decimal.NewFromFloat(e.cfg.Bot.MinTradeSize)
	}

	tick, err := optionalDecimal("tickSize", s.TickSize)
	if err != nil {
		return models.TradingPair{}, err
	}
	if tick.Sign() <= 0 {
		tick = decimal.NewFromFloat(e.cfg.Bot.TickSize)
	}

	ask, err := optionalDecimal("ask", s.Ask)
	if err != nil {
		return models.TradingPair{}, err
	}
	reference := ask
	if reference.Sign() <= 0 {
		compare, err := optionalDecimal("priceToCompare", s.PriceToCompare)
		if err != nil {
			return models.TradingPair{}, err
		}
		reference = compare
	}
	if reference.Sign() <= 0 {
		return models.TradingPair{}, fmt.Errorf("%w: %s", exchange.ErrPriceUnavailable, s.Symbol)
	}

	pair := models.TradingPair{
		Symbol:         s.Symbol,
		Base:           strings.ToUpper(s.Base),
		Quote:          strings.ToUpper(s.Quote),
		TickSize:       tick,
		MinTradeSize:   minTradeSize,
		ReferencePrice: reference,
	}

	e.logEntry().WithFields(map[string]interface{}{
		"symbol":         pair.Symbol,
		"min_trade_size": pair.MinTradeSize.String(),
		"tick_size":      pair.TickSize.String(),
		"reference":      pair.ReferencePrice.String(),
	}).Info("Найдена торговая пара.")
	return pair, nil
}

// optionalDecimal treats an empty field as zero and anything unparsable as a
// malformed response.
func optionalDecimal(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s=%q: %v", exchange.ErrMalformedResponse, field, raw, err)
	}
	return value, nil
}
