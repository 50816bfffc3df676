package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	catalogrepo "github.com/Skotchmaster/topup_shop/internal/catalog/repo"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/internal/order/repo"
	"github.com/Skotchmaster/topup_shop/internal/order/transport"
	"github.com/Skotchmaster/topup_shop/internal/testdb"
)

var fixedNow = time.Date(2026, 3, 8, 2, 30, 0, 0, time.FixedZone("BDT", 6*3600))

func newService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := testdb.New(t)
	return &OrderService{
		Repo:    &repo.GormRepo{DB: db},
		Catalog: &catalogrepo.GormRepo{DB: db},
		Now:     func() time.Time { return fixedNow },
	}, db
}

func billing() models.BillingInfo {
	return models.BillingInfo{FullName: "Rahim Uddin", Email: "rahim@example.com", Phone: "01700000000"}
}

func orderFor(d *models.Denomination, qty int) transport.CreateOrderRequest {
	return transport.CreateOrderRequest{
		Items: []transport.ItemInput{{
			ProductID:      d.ProductID.String(),
			DenominationID: d.ID.String(),
			Quantity:       qty,
			GameUID:        "5123456789",
		}},
		BillingInfo:   billing(),
		PaymentMethod: "BKASH",
	}
}

func TestNewOrderNumber(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^ORD-\d{6}-[A-Z0-9]{6}$`)
	for i := 0; i < 200; i++ {
		n := NewOrderNumber(fixedNow)
		require.Regexp(t, re, n)
		assert.Equal(t, "ORD-260307-", n[:11], "date is taken in UTC")
	}
}

func TestCreateOrder_Totals(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	p, d := testdb.Listing(t, db, "299")
	big := testdb.Denomination(t, db, p.ID, 325, "1450.50")

	req := orderFor(d, 2)
	req.Items = append(req.Items, transport.ItemInput{ProductID: p.ID.String(), DenominationID: big.ID.String()})

	o, err := s.CreateOrder(ctx, "uid-1", req)
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)
	assert.Equal(t, "uid-1", o.UserID)
	assert.Empty(t, o.Notes)
	assert.True(t, fixedNow.Equal(o.CreatedAt))
	assert.Equal(t, o.OrderNumber[4:10], o.CreatedAt.UTC().Format("060102"))
	require.Len(t, o.Items, 2)
	assert.True(t, decimal.NewFromInt(598).Equal(o.Items[0].TotalPrice))
	assert.Equal(t, 1, o.Items[1].Quantity, "quantity defaults to 1")
	assert.Equal(t, p.Name, o.Items[0].ProductName)
	assert.Equal(t, 60, o.Items[0].DenominationAmount)

	sum := decimal.Zero
	for _, it := range o.Items {
		assert.True(t, it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Equal(it.TotalPrice))
		sum = sum.Add(it.TotalPrice)
	}
	assert.True(t, sum.Equal(o.TotalAmount))
	assert.True(t, decimal.RequireFromString("2048.50").Equal(o.TotalAmount), o.TotalAmount.String())

	stored, err := s.GetByNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, stored.ID)
	assert.Len(t, stored.Items, 2)
	assert.True(t, fixedNow.Equal(stored.CreatedAt), "stored createdAt matches the order number date")
}

func TestCreateOrder_RejectsWithoutWriting(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	p, d := testdb.Listing(t, db, "299")
	other := testdb.Product(t, db, p.CategoryID, "Free Fire")
	foreign := testdb.Denomination(t, db, other.ID, 100, "80")
	missing := uuid.NewString()

	tests := []struct {
		name    string
		item    transport.ItemInput
		wantMsg string
	}{
		{
			name:    "unknown product",
			item:    transport.ItemInput{ProductID: missing, DenominationID: d.ID.String()},
			wantMsg: "Product not found: " + missing,
		},
		{
			name:    "denomination of another product",
			item:    transport.ItemInput{ProductID: p.ID.String(), DenominationID: foreign.ID.String()},
			wantMsg: "Denomination not found: " + foreign.ID.String(),
		},
		{
			name:    "malformed id",
			item:    transport.ItemInput{ProductID: p.ID.String(), DenominationID: "nope"},
			wantMsg: "Denomination not found: nope",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := orderFor(d, 1)
			req.Items = append(req.Items, tt.item)
			_, err := s.CreateOrder(ctx, models.GuestUserID, req)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}

	_, err := s.CreateOrder(ctx, "uid-1", transport.CreateOrderRequest{BillingInfo: billing(), PaymentMethod: "CARD"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad := orderFor(d, 1)
	bad.PaymentMethod = "PAYPAL"
	_, err = s.CreateOrder(ctx, "uid-1", bad)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGetOrder_ScopedToCaller(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	_, d := testdb.Listing(t, db, "10")

	o, err := s.CreateOrder(ctx, "uid-1", orderFor(d, 1))
	require.NoError(t, err)

	_, err = s.GetOrder(ctx, o.ID, "uid-1")
	require.NoError(t, err)
	_, err = s.GetOrder(ctx, o.ID, "uid-2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.GetByNumber(ctx, "ORD-000000-XXXXXX")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	_, d := testdb.Listing(t, db, "10")

	for i := 0; i < 3; i++ {
		_, err := s.CreateOrder(ctx, "uid-1", orderFor(d, 1))
		require.NoError(t, err)
	}
	_, err := s.CreateOrder(ctx, "uid-2", orderFor(d, 1))
	require.NoError(t, err)

	list, err := s.ListOrders(ctx, "uid-1", "", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Pagination.Total)
	assert.EqualValues(t, 2, list.Pagination.TotalPages)
	assert.Len(t, list.Orders, 2)

	list, err = s.ListOrders(ctx, "uid-1", "", 1, 500)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, list.Pagination.Limit)

	list, err = s.ListOrders(ctx, "uid-1", "COMPLETED", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Orders)
	assert.Equal(t, DefaultPageSize, list.Pagination.Limit)

	_, err = s.ListOrders(ctx, "uid-1", "SHIPPED", 1, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	all, err := s.AdminListOrders(ctx, "PENDING", "", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.Pagination.Total)
	assert.Equal(t, AdminPageSize, all.Pagination.Limit)
}

func TestAdminTransitions(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	_, d := testdb.Listing(t, db, "10")

	str := func(v string) *string { return &v }

	o, err := s.CreateOrder(ctx, "uid-1", orderFor(d, 1))
	require.NoError(t, err)

	_, err = s.PatchOrder(ctx, o.ID, transport.PatchOrderRequest{PaymentStatus: str("COMPLETED")})
	require.ErrorIs(t, err, apperr.ErrValidation, "nothing skips PENDING -> PROCESSING")

	got, err := s.PatchOrder(ctx, o.ID, transport.PatchOrderRequest{Status: str("PROCESSING"), Notes: str("checking")})
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, got.Status)
	assert.Equal(t, "checking", got.Notes)

	got, err = s.CompleteOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, got.Status)
	assert.Equal(t, models.PaymentCompleted, got.PaymentStatus)

	stored, err := s.AdminGetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, stored.Status)
	assert.Equal(t, models.PaymentCompleted, stored.PaymentStatus)

	_, err = s.CancelOrder(ctx, o.ID, "")
	assert.ErrorIs(t, err, apperr.ErrValidation, "completed is terminal")

	o2, err := s.CreateOrder(ctx, "uid-1", orderFor(d, 1))
	require.NoError(t, err)
	got, err = s.CancelOrder(ctx, o2.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
	assert.Equal(t, "Cancelled by admin", got.Notes)

	_, err = s.CompleteOrder(ctx, o2.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	o3, err := s.CreateOrder(ctx, "uid-1", orderFor(d, 1))
	require.NoError(t, err)
	got, err = s.CancelOrder(ctx, o3.ID, "customer asked")
	require.NoError(t, err)
	assert.Equal(t, "customer asked", got.Notes)

	_, err = s.CompleteOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateOrder_RetriesTakenNumber(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	_, d := testdb.Listing(t, db, "10")

	first, err := s.CreateOrder(ctx, "uid-1", orderFor(d, 1))
	require.NoError(t, err)

	numbers := []string{first.OrderNumber, first.OrderNumber, "ORD-260307-FRESH1"}
	s.NewNumber = func(time.Time) string {
		n := numbers[0]
		numbers = numbers[1:]
		return n
	}
	o, err := s.CreateOrder(ctx, "uid-1", orderFor(d, 1))
	require.NoError(t, err)
	assert.Equal(t, "ORD-260307-FRESH1", o.OrderNumber)

	s.NewNumber = func(time.Time) string { return first.OrderNumber }
	_, err = s.CreateOrder(ctx, "uid-1", orderFor(d, 1))
	assert.ErrorIs(t, err, ErrNumberExhausted)
}
