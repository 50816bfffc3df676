package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/catalog/repo"
	"github.com/Skotchmaster/topup_shop/internal/catalog/transport"
	"github.com/Skotchmaster/topup_shop/internal/testdb"
	"github.com/Skotchmaster/topup_shop/pkg/search"
)

type fakeIndex struct {
	hits    []string
	err     error
	indexed map[string]search.ProductDoc
	deleted []string
}

func (f *fakeIndex) IndexProduct(_ context.Context, doc search.ProductDoc) error {
	if f.indexed == nil {
		f.indexed = map[string]search.ProductDoc{}
	}
	f.indexed[doc.ID] = doc
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []string, error) {
	return int64(len(f.hits)), f.hits, f.err
}

func newService(t *testing.T) *CatalogService {
	t.Helper()
	return &CatalogService{Repo: &repo.GormRepo{DB: testdb.New(t)}}
}

func TestCreateProduct_WithDenominations(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	cat := testdb.Category(t, s.Repo.DB, "Mobile Games")

	p, err := s.CreateProduct(ctx, transport.CreateProductRequest{
		Name:       "  Free Fire Diamonds ",
		CategoryID: cat.ID.String(),
		Denominations: []transport.DenominationInput{
			{Amount: 520, Price: decimal.NewFromInt(450)},
			{Amount: 100, Price: decimal.NewFromInt(95), Discount: 5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Free Fire Diamonds", p.Name)
	assert.Equal(t, "free-fire-diamonds", p.Slug)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.Category)
	assert.Equal(t, cat.Slug, p.Category.Slug)
	require.Len(t, p.Denominations, 2)
	assert.Equal(t, 100, p.Denominations[0].Amount, "denominations sorted by amount")
	assert.Equal(t, 520, p.Denominations[1].Amount)
}

func TestCreateProduct_Rejects(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	cat := testdb.Category(t, s.Repo.DB, "Gift Cards")

	_, err := s.CreateProduct(ctx, transport.CreateProductRequest{Name: "Steam Wallet", CategoryID: cat.ID.String()})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     transport.CreateProductRequest
		wantErr error
		wantMsg string
	}{
		{
			name:    "similar name",
			req:     transport.CreateProductRequest{Name: "STEAM  wallet!", CategoryID: cat.ID.String()},
			wantErr: apperr.ErrConflict,
			wantMsg: "Product with similar name already exists",
		},
		{
			name:    "name without letters",
			req:     transport.CreateProductRequest{Name: "!!!", CategoryID: cat.ID.String()},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "unknown category",
			req:     transport.CreateProductRequest{Name: "Google Play", CategoryID: uuid.NewString()},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "negative price",
			req: transport.CreateProductRequest{
				Name:          "iTunes",
				CategoryID:    cat.ID.String(),
				Denominations: []transport.DenominationInput{{Amount: 1, Price: decimal.NewFromInt(-1)}},
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateProduct(ctx, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
		})
	}
}

func TestUpdateProduct_RenameKeepsOwnSlug(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	cat := testdb.Category(t, s.Repo.DB, "Mobile Games")

	a, err := s.CreateProduct(ctx, transport.CreateProductRequest{Name: "Mobile Legends", CategoryID: cat.ID.String()})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, transport.CreateProductRequest{Name: "Genshin Impact", CategoryID: cat.ID.String()})
	require.NoError(t, err)

	same := "mobile legends"
	got, err := s.UpdateProduct(ctx, a.ID, transport.UpdateProductRequest{Name: &same})
	require.NoError(t, err)
	assert.Equal(t, "mobile-legends", got.Slug)

	taken := "Genshin-Impact"
	_, err = s.UpdateProduct(ctx, a.ID, transport.UpdateProductRequest{Name: &taken})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeleteProduct_CascadesToDenominations(t *testing.T) {
	t.Parallel()
	s := newService(t)
	idx := &fakeIndex{}
	s.Index = idx
	ctx := context.Background()
	p, d := testdb.Listing(t, s.Repo.DB, "299")

	require.NoError(t, s.DeleteProduct(ctx, p.ID))

	_, err := s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := s.GetDenomination(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, []string{p.ID.String()}, idx.deleted)

	// reactivation leaves the denominations alone
	on := true
	view, err := s.UpdateProduct(ctx, p.ID, transport.UpdateProductRequest{IsActive: &on})
	require.NoError(t, err)
	assert.True(t, view.IsActive)
	assert.Empty(t, view.Denominations)

	got, err = s.GetDenomination(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, s.DeleteProduct(ctx, uuid.New()), apperr.ErrNotFound)
}

func TestListProducts(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	db := s.Repo.DB

	games := testdb.Category(t, db, "Mobile Games")
	cards := testdb.Category(t, db, "Gift Cards")
	pubg := testdb.Product(t, db, games.ID, "PUBG Mobile UC")
	testdb.Denomination(t, db, pubg.ID, 325, "450")
	testdb.Denomination(t, db, pubg.ID, 60, "99")
	testdb.Product(t, db, cards.ID, "Steam Wallet")
	hidden := testdb.Product(t, db, games.ID, "PUBG Lite")
	require.NoError(t, s.DeleteProduct(ctx, hidden.ID))

	list, err := s.ListProducts(ctx, transport.ListProductsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)
	assert.Equal(t, DefaultPageSize, list.Pagination.Limit)

	list, err = s.ListProducts(ctx, transport.ListProductsQuery{Search: "pubg"})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	got := list.Products[0]
	assert.Equal(t, pubg.ID, got.ID)
	require.NotNil(t, got.Category)
	assert.Equal(t, games.ID, got.Category.ID)
	require.Len(t, got.Denominations, 2)
	assert.Equal(t, 60, got.Denominations[0].Amount)

	list, err = s.ListProducts(ctx, transport.ListProductsQuery{CategoryID: cards.ID.String(), Limit: 1000})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, MaxPageSize, list.Pagination.Limit)
	assert.Empty(t, list.Products[0].Denominations)
	assert.NotNil(t, list.Products[0].Denominations, "serialises as []")

	_, err = s.ListProducts(ctx, transport.ListProductsQuery{CategoryID: "nope"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	list, err = s.ListProducts(ctx, transport.ListProductsQuery{Search: "100%"})
	require.NoError(t, err)
	assert.Empty(t, list.Products, "wildcards in the query are literal")
}

func TestProductsByCategorySlug(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	cat, err := s.CreateCategory(ctx, transport.CreateCategoryRequest{Name: "PC Games"})
	require.NoError(t, err)
	testdb.Product(t, s.Repo.DB, cat.ID, "Valorant Points")

	res, err := s.ProductsByCategorySlug(ctx, "pc-games", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, res.Category.ID)
	assert.Len(t, res.Products, 1)

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))
	_, err = s.ProductsByCategorySlug(ctx, "pc-games", 1, 10)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.GetCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	db := s.Repo.DB
	cat := testdb.Category(t, db, "Mobile Games")
	a := testdb.Product(t, db, cat.ID, "Clash of Clans Gems")
	b := testdb.Product(t, db, cat.ID, "Clash Royale Gems")

	_, err := s.SearchProducts(ctx, "   ", 1, 10)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	list, err := s.SearchProducts(ctx, "ROYALE", 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, b.ID, list.Products[0].ID)

	s.Index = &fakeIndex{hits: []string{b.ID.String(), "not-a-uuid", a.ID.String()}}
	list, err = s.SearchProducts(ctx, "clash", 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Products, 2)
	assert.Equal(t, b.ID, list.Products[0].ID, "index order is kept")
	assert.Equal(t, a.ID, list.Products[1].ID)

	s.Index = &fakeIndex{err: errors.New("index down")}
	list, err = s.SearchProducts(ctx, "gems", 1, 10)
	require.NoError(t, err)
	assert.Len(t, list.Products, 2)
}

func TestDenominations(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	p, _ := testdb.Listing(t, s.Repo.DB, "99")

	d, err := s.AddDenomination(ctx, p.ID, transport.DenominationInput{Amount: 660, Price: decimal.NewFromInt(899)})
	require.NoError(t, err)
	assert.True(t, d.IsActive)

	_, err = s.AddDenomination(ctx, uuid.New(), transport.DenominationInput{Amount: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	price := decimal.RequireFromString("849.50")
	discount := 10
	d, err = s.UpdateDenomination(ctx, d.ID, transport.UpdateDenominationRequest{Price: &price, Discount: &discount})
	require.NoError(t, err)
	assert.True(t, price.Equal(d.Price))
	assert.Equal(t, 10, d.Discount)

	neg := decimal.NewFromInt(-5)
	_, err = s.UpdateDenomination(ctx, d.ID, transport.UpdateDenominationRequest{Price: &neg})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, s.DeleteDenomination(ctx, d.ID))
	view, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, view.Denominations, 1)

	assert.ErrorIs(t, s.DeleteDenomination(ctx, uuid.New()), apperr.ErrNotFound)
}

func TestFeaturedAndReindex(t *testing.T) {
	t.Parallel()
	s := newService(t)
	idx := &fakeIndex{}
	s.Index = idx
	ctx := context.Background()
	cat := testdb.Category(t, s.Repo.DB, "Mobile Games")

	p, err := s.CreateProduct(ctx, transport.CreateProductRequest{Name: "Honor of Kings", CategoryID: cat.ID.String(), IsFeatured: true})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, transport.CreateProductRequest{Name: "Call of Duty", CategoryID: cat.ID.String()})
	require.NoError(t, err)

	featured, err := s.FeaturedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, p.ID, featured[0].ID)

	require.Contains(t, idx.indexed, p.ID.String())
	assert.Equal(t, "honor-of-kings", idx.indexed[p.ID.String()].Slug)

	admin, err := s.AdminListProducts(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, AdminPageSize, admin.Pagination.Limit)
	assert.Len(t, admin.Products, 2)
}
