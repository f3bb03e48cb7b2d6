package engine

import (
	"ladderbot/internal/logger"
	"ladderbot/internal/models"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestOrderEntryFields(t *testing.T) {
	log := logger.New(logger.Config{Level: "debug", Output: "discard"})
	hook := new(test.Hook)
	log.AddHook(hook)

	e, _ := newTestEngine(testConfig(), &fakeClient{})
	e.log = log
	e.runID = "run-1"

	e.orderEntry(models.OrderRecord{
		ID:     "42",
		Symbol: "IMX/USDT",
		Price:  decimal.RequireFromString("0.5"),
		Amount: decimal.RequireFromString("10"),
		Status: models.OrderStatusNew,
	}).Info("ордер")

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no entry logged")
	}
	want := logrus.Fields{
		"run_id":    "run-1",
		"component": "engine",
		"pair":      "IMX/USDT",
		"symbol":    "IMX/USDT",
		"order_id":  "42",
		"price":     "0.5",
		"amount":    "10",
	}
	for k, v := range want {
		if entry.Data[k] != v {
			t.Errorf("%s = %v, want %v", k, entry.Data[k], v)
		}
	}
}

func TestPlaceOrderLogsSymbolAndID(t *testing.T) {
	log := logger.New(logger.Config{Level: "debug", Output: "discard"})
	hook := new(test.Hook)
	log.AddHook(hook)

	e, _ := newTestEngine(testConfig(), &fakeClient{})
	e.log = log

	if _, err := e.PlaceOrder(t.Context(), "IMX/USDT", decimal.RequireFromString("98"), decimal.RequireFromString("1")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Data["order_id"] != "ord-1" || entry.Data["symbol"] != "IMX/USDT" || entry.Data["component"] != "engine" {
		t.Fatalf("entry = %+v", entry)
	}
}
