package engine

import (
	"context"
	"fmt"
	"ladderbot/internal/config"
	"ladderbot/internal/exchange"
	"ladderbot/internal/logger"
	"ladderbot/internal/store"

	"github.com/spf13/afero"
)

type fakeClient struct {
	balances    map[string]string
	balancesErr error
	symbols     []exchange.Symbol
	symbolsErr  error

	statuses  map[string]string
	cancelErr map[string]error

	acks      []exchange.OrderAck
	createErr error
	nextID    int

	created   []exchange.OrderRequest
	queried   []string
	cancelled []string
}

func (f *fakeClient) GetBalances(ctx context.Context) (map[string]string, error) {
	return f.balances, f.balancesErr
}

func (f *fakeClient) GetSymbols(ctx context.Context) ([]exchange.Symbol, error) {
	return f.symbols, f.symbolsErr
}

func (f *fakeClient) CreateOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderAck, error) {
	f.created = append(f.created, req)
	if f.createErr != nil {
		return exchange.OrderAck{}, f.createErr
	}
	if len(f.acks) > 0 {
		ack := f.acks[0]
		f.acks = f.acks[1:]
		return ack, nil
	}
	f.nextID++
	return exchange.OrderAck{Status: true, ResultOrderID: fmt.Sprintf("ord-%d", f.nextID)}, nil
}

func (f *fakeClient) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	f.queried = append(f.queried, orderID)
	status, ok := f.statuses[orderID]
	if !ok {
		return "", fmt.Errorf("%w: %s", exchange.ErrOrderNotFound, orderID)
	}
	return status, nil
}

func (f *fakeClient) CancelOrder(ctx context.Context, orderID string) error {
	if err := f.cancelErr[orderID]; err != nil {
		return err
	}
	f.cancelled = append(f.cancelled, orderID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Exchange: config.ExchangeConfig{BaseUrl: "http://exchange.test", ApiKey: "key"},
		Bot: config.BotConfig{
			Base:         "IMX",
			Quote:        "USDT",
			Percents:     []float64{0.02, 0.05, 0.08},
			MaxDeviation: 0.05,
			RepriceStep:  0.01,
			TickSize:     0.001,
			MinTradeSize: 0.01,
		},
		Store: config.StoreConfig{Path: "data/orders.json"},
	}
}

func testSymbols() []exchange.Symbol {
	return []exchange.Symbol{
		{Symbol: "BTC/USDT", Base: "BTC", Quote: "USDT", MinTradeSize: "0.0001", Ask: "60000"},
		{Symbol: "IMX/USDT", Base: "imx", Quote: "usdt", MinTradeSize: "1", Ask: "100"},
	}
}

func newTestEngine(cfg *config.Config, client *fakeClient) (*Engine, *store.Store) {
	st := store.New(afero.NewMemMapFs(), cfg.Store.Path)
	return New(cfg, client, st, logger.Discard()), st
}
