package engine

import (
	"errors"
	"fmt"
	"ladderbot/internal/models"

	"github.com/shopspring/decimal"
)

const (
	pricePlaces int32 = 6
	qtyPlaces   int32 = 8
)

var ErrInvalidLadder = errors.New("Некорректные параметры сетки")

// RoundToStep snaps value to the nearest multiple of step, ties to even, and
// trims the result to price precision.
func RoundToStep(value, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		return value.RoundBank(pricePlaces)
	}
	return value.Div(step).RoundBank(0).Mul(step).RoundBank(pricePlaces)
}

func RoundQty(qty decimal.Decimal) decimal.Decimal {
	return qty.RoundBank(qtyPlaces)
}

// RepricePrice moves a resting buy price up by step (0.01 is one percent)
// and realigns it to the tick.
func RepricePrice(price, step, tick decimal.Decimal) decimal.Decimal {
	return RoundToStep(price.Mul(decimal.NewFromInt(1).Add(step)), tick)
}

// PlanLadder derives one step per percentage, in order. A step deeper than
// maxDeviation below the reference is moved up to that floor. Planning stops
// at the first step the balance cannot cover.
func PlanLadder(pair models.TradingPair, balance decimal.Decimal, percents []decimal.Decimal, maxDeviation decimal.Decimal) ([]models.LadderStep, error) {
	one := decimal.NewFromInt(1)

	switch {
	case pair.ReferencePrice.Sign() <= 0:
		return nil, fmt.Errorf("%w: опорная цена %s", ErrInvalidLadder, pair.ReferencePrice)
	case pair.TickSize.Sign() <= 0:
		return nil, fmt.Errorf("%w: шаг цены %s", ErrInvalidLadder, pair.TickSize)
	case pair.MinTradeSize.Sign() <= 0:
		return nil, fmt.Errorf("%w: минимальный объём %s", ErrInvalidLadder, pair.MinTradeSize)
	case maxDeviation.Sign() < 0 || maxDeviation.GreaterThanOrEqual(one):
		return nil, fmt.Errorf("%w: отклонение %s", ErrInvalidLadder, maxDeviation)
	}
	for _, p := range percents {
		if p.Sign() < 0 || p.GreaterThanOrEqual(one) {
			return nil, fmt.Errorf("%w: отступ %s", ErrInvalidLadder, p)
		}
	}

	minAllowed := RoundToStep(pair.ReferencePrice.Mul(one.Sub(maxDeviation)), pair.TickSize)

	steps := make([]models.LadderStep, 0, len(percents))
	spent := decimal.Zero
	for _, p := range percents {
		raw := pair.ReferencePrice.Mul(one.Sub(p))
		price := RoundToStep(raw, pair.TickSize)
		clamped := price.LessThan(minAllowed)
		if clamped {
			price = minAllowed
		}

		cost := price.Mul(pair.MinTradeSize)
		if spent.Add(cost).GreaterThan(balance) {
			break
		}
		spent = spent.Add(cost)

		steps = append(steps, models.LadderStep{
			OffsetPercent: p,
			RawPrice:      raw,
			ClampedPrice:  price,
			Cost:          cost,
			Clamped:       clamped,
		})
	}
	return steps, nil
}
