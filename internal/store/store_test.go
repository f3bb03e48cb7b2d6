package store

import (
	"errors"
	"io/fs"
	"ladderbot/internal/models"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
)

func record(id, price, amount string, status models.OrderStatus) models.OrderRecord {
	return models.OrderRecord{
		ID:     models.OrderID(id),
		Symbol: "IMX/USDT",
		Price:  decimal.RequireFromString(price),
		Amount: decimal.RequireFromString(amount),
		Status: status,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(afero.NewMemMapFs(), "state/orders.json")
	in := []models.OrderRecord{
		record("101", "0.448", "10", models.OrderStatusNew),
		record("102", "0.434", "10", models.OrderStatusFilled),
		record("unknown", "0.43", "10.12345678", models.OrderStatusNew),
		record("103", "0.5", "1", models.OrderStatusCancelled),
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d records, want %d", len(out), len(in))
	}
	for i := range in {
		a, b := in[i], out[i]
		if a.ID != b.ID || a.Symbol != b.Symbol || a.Status != b.Status || !a.Price.Equal(b.Price) || !a.Amount.Equal(b.Amount) {
			t.Fatalf("record %d: %+v != %+v", i, a, b)
		}
	}
}

func TestSaveReplacesWholeSnapshot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys, "orders.json")

	s.Save([]models.OrderRecord{record("1", "1", "1", models.OrderStatusNew), record("2", "1", "1", models.OrderStatusNew)})
	if err := s.Save([]models.OrderRecord{record("3", "1", "1", models.OrderStatusNew)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load()
	if err != nil || len(out) != 1 || out[0].ID != "3" {
		t.Fatalf("got %+v, %v", out, err)
	}

	entries, _ := afero.ReadDir(fsys, ".")
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys, "orders.json")
	if err := s.Save(nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := afero.ReadFile(fsys, "orders.json")
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("got %q", data)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := New(afero.NewMemMapFs(), "orders.json")
	if _, err := s.Load(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadAcceptsLegacyDocument(t *testing.T) {
	fsys := afero.NewMemMapFs()
	legacy := `[
    {"id": 5501, "symbol": "IMX/USDT", "price": 0.448, "amount": 10.0, "status": "NEW"},
    {"id": "5502", "symbol": "IMX/USDT", "price": 0.434, "amount": 10.0, "status": "filled"},
    {"id": "5503", "symbol": "IMX/USDT", "price": 0.434, "amount": 10.0, "status": "canceled"},
    {"id": "5504", "symbol": "IMX/USDT", "price": 0.434, "amount": 10.0, "status": "weird"}
]`
	afero.WriteFile(fsys, "orders.json", []byte(legacy), 0o644)

	out, err := New(fsys, "orders.json").Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []models.OrderStatus{models.OrderStatusNew, models.OrderStatusFilled, models.OrderStatusCancelled, models.OrderStatusUnknown}
	for i, st := range want {
		if out[i].Status != st {
			t.Fatalf("record %d status %s, want %s", i, out[i].Status, st)
		}
	}
	if out[0].ID != "5501" || !out[0].Price.Equal(decimal.RequireFromString("0.448")) {
		t.Fatalf("record 0 = %+v", out[0])
	}
}

func TestDuplicateLiveIDsRejected(t *testing.T) {
	s := New(afero.NewMemMapFs(), "orders.json")

	dup := []models.OrderRecord{record("7", "1", "1", models.OrderStatusNew), record("7", "1", "1", models.OrderStatusNew)}
	if err := s.Save(dup); !errors.Is(err, ErrDuplicateOrder) {
		t.Fatalf("expected ErrDuplicateOrder, got %v", err)
	}

	ok := []models.OrderRecord{
		record("7", "1", "1", models.OrderStatusFilled),
		record("7", "1", "1", models.OrderStatusNew),
		record("unknown", "1", "1", models.OrderStatusNew),
		record("unknown", "1", "1", models.OrderStatusNew),
	}
	if err := s.Save(ok); err != nil {
		t.Fatalf("terminal and unknown ids may repeat: %v", err)
	}
}

func TestLoadMissingStatusRoundTrips(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys, "orders.json")
	afero.WriteFile(fsys, "orders.json", []byte(`[{"id":"1","symbol":"IMX/USDT","price":"0.5","amount":"10"}]`), 0o644)

	first, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Save(first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if first[0].Status != models.OrderStatusUnknown || second[0].Status != first[0].Status {
		t.Fatalf("first=%q second=%q", first[0].Status, second[0].Status)
	}
}

func TestSaveWritesReadableFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys, "data/orders.json")
	if s.Path() != "data/orders.json" {
		t.Fatalf("path = %q", s.Path())
	}

	for i := 0; i < 2; i++ {
		if err := s.Save([]models.OrderRecord{record("1", "1", "1", models.OrderStatusNew)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		info, err := fsys.Stat(s.Path())
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o644 {
			t.Fatalf("save %d: mode = %o, want 644", i, perm)
		}
	}
}
