package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LocalTier appends demo orders to a JSON list on local disk. Nothing is
// sent anywhere and the payment step is a no-op.
type LocalTier struct {
	Path string
	Now  func() time.Time

	mu sync.Mutex
}

func (t *LocalTier) Name() string { return "local" }

func (t *LocalTier) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *LocalTier) CreateOrder(_ context.Context, req Request) (*Order, error) {
	now := t.now().UTC()
	o := Order{
		ID:            fmt.Sprintf("demo-%d", now.UnixMilli()),
		OrderNumber:   fmt.Sprintf("ORD-%d", now.UnixMilli()),
		Lines:         req.Lines,
		TotalAmount:   req.Total(),
		Status:        "PENDING",
		PaymentStatus: "PENDING",
		PaymentMethod: req.PaymentMethod,
		Billing:       req.Billing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	orders, err := t.read()
	if err != nil {
		return nil, err
	}
	orders = append(orders, o)
	if err := t.write(orders); err != nil {
		return nil, err
	}
	return &o, nil
}

func (t *LocalTier) CreatePayment(context.Context, *Order, Request) error { return nil }

// Orders returns every demo order in the file, oldest first.
func (t *LocalTier) Orders() ([]Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.read()
}

func (t *LocalTier) read() ([]Order, error) {
	raw, err := os.ReadFile(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local orders: %w", err)
	}

	orders := []Order{}
	if len(raw) == 0 {
		return orders, nil
	}
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("decode local orders: %w", err)
	}
	return orders, nil
}

// write swaps in a fully written temp file.
func (t *LocalTier) write(orders []Order) error {
	raw, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local orders: %w", err)
	}

	dir := filepath.Dir(t.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".orders-*.json")
	if err != nil {
		return fmt.Errorf("write local orders: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write local orders: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write local orders: %w", err)
	}
	return os.Rename(tmp.Name(), t.Path)
}
