package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/internal/order/repo"
	"github.com/Skotchmaster/topup_shop/internal/order/transport"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	AdminPageSize   = 20
	adminMaxPage    = 100

	// numberAttempts bounds the search for an unused order number.
	numberAttempts = 3
)

var ErrNumberExhausted = errors.New("no free order number")

// Catalog resolves the rows an order snapshots.
type Catalog interface {
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	DenominationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Denomination, error)
}

type OrderService struct {
	Repo    *repo.GormRepo
	Catalog Catalog
	Now     func() time.Time

	// NewNumber defaults to NewOrderNumber.
	NewNumber func(time.Time) string
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Order not found")
	}
	return err
}

// CreateOrder prices every item from the live catalog and persists the
// snapshot. Nothing is written when any item is rejected. userID is
// models.GuestUserID for guest checkout.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req transport.CreateOrderRequest) (*models.Order, error) {
	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, apperr.Validation("Invalid payment method")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("At least one item is required")
	}

	items, total, err := s.snapshot(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	o := &models.Order{
		UserID:        userID,
		Items:         items,
		TotalAmount:   total,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: method,
		BillingInfo: models.BillingInfo{
			FullName: strings.TrimSpace(req.BillingInfo.FullName),
			Email:    strings.TrimSpace(req.BillingInfo.Email),
			Phone:    strings.TrimSpace(req.BillingInfo.Phone),
		},
		Notes: req.Notes,
	}

	for attempt := 0; attempt < numberAttempts; attempt++ {
		gen := s.NewNumber
		if gen == nil {
			gen = NewOrderNumber
		}
		now := s.now()
		number := gen(now)
		taken, err := s.Repo.NumberTaken(ctx, number)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		// the number's date and createdAt come from the same instant
		o.OrderNumber = number
		o.CreatedAt, o.UpdatedAt = now, now
		err = s.Repo.CreateOrder(ctx, o)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race for the number; the rows were rolled back
			o.ID = uuid.Nil
			for i := range o.Items {
				o.Items[i].ID = uuid.Nil
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, fmt.Errorf("create order after %d attempts: %w", numberAttempts, ErrNumberExhausted)
}

func (s *OrderService) snapshot(ctx context.Context, in []transport.ItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	productIDs := lo.FilterMap(in, func(i transport.ItemInput, _ int) (uuid.UUID, bool) {
		id, err := uuid.Parse(i.ProductID)
		return id, err == nil
	})
	denominationIDs := lo.FilterMap(in, func(i transport.ItemInput, _ int) (uuid.UUID, bool) {
		id, err := uuid.Parse(i.DenominationID)
		return id, err == nil
	})

	products, err := s.Catalog.ProductsByIDs(ctx, lo.Uniq(productIDs))
	if err != nil {
		return nil, decimal.Zero, err
	}
	denoms, err := s.Catalog.DenominationsByIDs(ctx, lo.Uniq(denominationIDs))
	if err != nil {
		return nil, decimal.Zero, err
	}
	productByID := lo.KeyBy(products, func(p models.Product) string { return p.ID.String() })
	denomByID := lo.KeyBy(denoms, func(d models.Denomination) string { return d.ID.String() })

	items := make([]models.OrderItem, 0, len(in))
	total := decimal.Zero
	for _, i := range in {
		p, ok := productByID[strings.ToLower(i.ProductID)]
		if !ok || !p.IsActive {
			return nil, decimal.Zero, apperr.Validation("Product not found: %s", i.ProductID)
		}
		d, ok := denomByID[strings.ToLower(i.DenominationID)]
		if !ok || !d.IsActive || d.ProductID != p.ID {
			return nil, decimal.Zero, apperr.Validation("Denomination not found: %s", i.DenominationID)
		}

		qty := max(i.Quantity, 1)
		line := d.Price.Mul(decimal.NewFromInt(int64(qty)))
		total = total.Add(line)
		items = append(items, models.OrderItem{
			ProductID:          p.ID,
			DenominationID:     d.ID,
			ProductName:        p.Name,
			DenominationAmount: d.Amount,
			Quantity:           qty,
			UnitPrice:          d.Price,
			TotalPrice:         line,
			GameUID:            strings.TrimSpace(i.GameUID),
			Server:             strings.TrimSpace(i.Server),
			PlayerID:           strings.TrimSpace(i.PlayerID),
		})
	}
	return items, total, nil
}

// GetOrder only finds orders owned by userID.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID, userID string) (*models.Order, error) {
	o, err := s.Repo.GetUserOrder(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *OrderService) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	o, err := s.Repo.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID, status string, page, size int) (*transport.OrderList, error) {
	if status != "" && !models.OrderStatus(status).Valid() {
		return nil, apperr.Validation("Invalid order status")
	}
	page, offset, limit := util.Calculate(page, size, DefaultPageSize, MaxPageSize)
	return s.list(ctx, repo.OrderFilter{UserID: userID, Status: status, Offset: offset, Limit: limit}, page, limit)
}

func (s *OrderService) list(ctx context.Context, f repo.OrderFilter, page, limit int) (*transport.OrderList, error) {
	total, items, err := s.Repo.ListOrders(ctx, f)
	if err != nil {
		return nil, err
	}
	return &transport.OrderList{Orders: items, Pagination: util.Meta(page, limit, total)}, nil
}
