// Package checkout places an order through a chain of independent stores.
// The first store that accepts both the order and its payment wins. Stores
// are never reconciled with each other.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const giftCardCategory = "gift-card"

var (
	ErrInvalidRequest = errors.New("invalid checkout request")
	ErrAllTiersFailed = errors.New("every checkout tier failed")
)

type Line struct {
	ProductID      string          `json:"productId"`
	DenominationID string          `json:"denominationId"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Category       string          `json:"category"`
	Server         string          `json:"server,omitempty"`
}

type Billing struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type Request struct {
	Lines         []Line  `json:"lines"`
	Billing       Billing `json:"billingInfo"`
	GameUID       string  `json:"gameUid"`
	PlayerID      string  `json:"playerId,omitempty"`
	PaymentMethod string  `json:"paymentMethod"`
	SenderNumber  string  `json:"senderNumber"`
	SenderName    string  `json:"senderName,omitempty"`
	TransactionID string  `json:"transactionId"`

	// Token is the caller's bearer ID token; empty means guest checkout.
	Token string `json:"-"`
	// UserID is the caller's uid, used by stores that record an owner.
	UserID string `json:"-"`
}

// Validate checks what the form must carry before any tier is tried.
func (r Request) Validate() error {
	if len(r.Lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidRequest)
	}
	for _, l := range r.Lines {
		if l.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidRequest)
		}
	}
	needsUID := lo.SomeBy(r.Lines, func(l Line) bool { return l.Category != giftCardCategory })
	if needsUID && strings.TrimSpace(r.GameUID) == "" {
		return fmt.Errorf("%w: game uid is required for game items", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.SenderNumber) == "" || strings.TrimSpace(r.TransactionID) == "" {
		return fmt.Errorf("%w: sender number and transaction id are required", ErrInvalidRequest)
	}
	return nil
}

func (r Request) Total() decimal.Decimal {
	return lo.Reduce(r.Lines, func(sum decimal.Decimal, l Line, _ int) decimal.Decimal {
		return sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}, decimal.Zero)
}

func (r Request) owner() string {
	if r.UserID == "" {
		return "guest"
	}
	return r.UserID
}

// Order is the receipt a tier hands back. Its id space belongs to the tier
// that created it.
type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Lines         []Line          `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	PaymentMethod string          `json:"paymentMethod"`
	Billing       Billing         `json:"billingInfo"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type Tier interface {
	Name() string
	CreateOrder(ctx context.Context, req Request) (*Order, error)
	CreatePayment(ctx context.Context, o *Order, req Request) error
}

type Orchestrator struct {
	Tiers  []Tier
	Logger *slog.Logger
}

// Place tries each tier in turn. A tier counts only when both its order and
// its payment succeed; a failed tier is logged and the next one is tried.
func (o *Orchestrator) Place(ctx context.Context, req Request) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l := o.Logger
	if l == nil {
		l = slog.Default()
	}

	errs := make([]error, 0, len(o.Tiers))
	for _, t := range o.Tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		order, err := t.CreateOrder(ctx, req)
		if err == nil {
			err = t.CreatePayment(ctx, order, req)
		}
		if err != nil {
			l.Warn("checkout_tier_failed", "tier", t.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
			continue
		}

		l.Info("checkout_tier_success", "tier", t.Name(), "order_number", order.OrderNumber)
		return order, nil
	}
	if len(errs) == 0 {
		return nil, ErrAllTiersFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllTiersFailed, errors.Join(errs...))
}
