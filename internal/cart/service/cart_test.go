package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	catalogrepo "github.com/Skotchmaster/topup_shop/internal/catalog/repo"
	"github.com/Skotchmaster/topup_shop/internal/cart/repo"
	"github.com/Skotchmaster/topup_shop/internal/cart/transport"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/internal/testdb"
)

func newService(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db := testdb.New(t)
	return &CartService{Repo: &repo.GormRepo{DB: db}, Catalog: &catalogrepo.GormRepo{DB: db}}, db
}

func add(p *models.Product, d *models.Denomination, qty int, gameUID string) transport.AddItemRequest {
	return transport.AddItemRequest{
		ProductID:      p.ID.String(),
		DenominationID: d.ID.String(),
		Quantity:       qty,
		GameUID:        gameUID,
	}
}

func TestGetCart_Empty(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)

	view, err := s.GetCart(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Nil(t, view.ID)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalItems)
	assert.True(t, view.TotalPrice.IsZero())
}

func TestAddItem_MergesSameLine(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	ctx := context.Background()
	p, d := testdb.Listing(t, s.Repo.DB, "299")

	first, err := s.AddItem(ctx, "uid-1", add(p, d, 0, "5123"))
	require.NoError(t, err)
	second, err := s.AddItem(ctx, "uid-1", add(p, d, 2, " 5123 "))
	require.NoError(t, err)
	assert.Equal(t, first, second, "one cart per user")

	_, err = s.AddItem(ctx, "uid-1", add(p, d, 1, "9999"))
	require.NoError(t, err)

	view, err := s.GetCart(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.Items[0].Quantity, "default quantity 1 plus 2")
	assert.Equal(t, "5123", view.Items[0].GameUID)
	assert.Equal(t, 4, view.TotalItems)
	assert.True(t, decimal.NewFromInt(1196).Equal(view.TotalPrice), view.TotalPrice.String())
	assert.True(t, decimal.NewFromInt(897).Equal(view.Items[0].TotalPrice))
	assert.Equal(t, p.Name, view.Items[0].Product.Name)
}

func TestAddItem_Rejects(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	p, d := testdb.Listing(t, db, "99")
	other := testdb.Product(t, db, p.CategoryID, "Free Fire")
	foreign := testdb.Denomination(t, db, other.ID, 100, "80")
	inactive := testdb.Denomination(t, db, p.ID, 325, "450")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name    string
		req     transport.AddItemRequest
		wantMsg string
	}{
		{name: "unknown product", req: transport.AddItemRequest{ProductID: uuid.NewString(), DenominationID: d.ID.String()}, wantMsg: "Product not found"},
		{name: "foreign denomination", req: add(p, foreign, 1, ""), wantMsg: "Denomination not found"},
		{name: "inactive denomination", req: add(p, inactive, 1, ""), wantMsg: "Denomination not found"},
		{name: "negative quantity", req: add(p, d, -1, ""), wantMsg: "Quantity must be at least 1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddItem(ctx, "uid-1", tt.req)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}

	view, err := s.GetCart(ctx, "uid-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestUpdateAndRemove(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	p, d := testdb.Listing(t, db, "50")

	qty := func(n int) *int { return &n }

	err := s.UpdateItem(ctx, "uid-1", uuid.New(), transport.UpdateItemRequest{Quantity: qty(1)})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualError(t, err, "Cart not found")

	_, err = s.AddItem(ctx, "uid-1", add(p, d, 1, "g1"))
	require.NoError(t, err)
	view, err := s.GetCart(ctx, "uid-1")
	require.NoError(t, err)
	itemID := view.Items[0].ID

	err = s.RemoveItem(ctx, "uid-1", uuid.New())
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualError(t, err, "Cart item not found")

	err = s.RemoveItem(ctx, "uid-2", itemID)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "other users cannot reach the line")

	server := "asia"
	require.NoError(t, s.UpdateItem(ctx, "uid-1", itemID, transport.UpdateItemRequest{Quantity: qty(5), Server: &server}))
	view, err = s.GetCart(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, "asia", view.Items[0].Server)

	require.NoError(t, s.UpdateItem(ctx, "uid-1", itemID, transport.UpdateItemRequest{Quantity: qty(0)}))
	view, err = s.GetCart(ctx, "uid-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	err = s.RemoveItem(ctx, "uid-1", itemID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetCart_SkipsInactiveWithoutDeleting(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	p, d := testdb.Listing(t, db, "10")

	_, err := s.AddItem(ctx, "uid-1", add(p, d, 2, ""))
	require.NoError(t, err)
	require.NoError(t, db.Model(d).Update("is_active", false).Error)

	view, err := s.GetCart(ctx, "uid-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalItems)

	var stored int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&stored).Error)
	assert.EqualValues(t, 1, stored)
}

func TestClearCart(t *testing.T) {
	t.Parallel()
	s, db := newService(t)
	ctx := context.Background()
	p, d := testdb.Listing(t, db, "10")

	require.NoError(t, s.ClearCart(ctx, "uid-1"), "clearing a missing cart is fine")

	_, err := s.AddItem(ctx, "uid-1", add(p, d, 1, ""))
	require.NoError(t, err)
	require.NoError(t, s.ClearCart(ctx, "uid-1"))

	var carts, items int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	assert.Zero(t, carts)
	assert.Zero(t, items)
}
