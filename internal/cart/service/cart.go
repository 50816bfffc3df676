package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/cart/repo"
	"github.com/Skotchmaster/topup_shop/internal/cart/transport"
	"github.com/Skotchmaster/topup_shop/internal/models"
)

// Catalog is the read side of the catalog the cart prices against.
type Catalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetDenomination(ctx context.Context, id uuid.UUID) (*models.Denomination, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	DenominationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Denomination, error)
}

type CartService struct {
	Repo    *repo.GormRepo
	Catalog Catalog
}

// GetCart prices every line from the live denomination. Lines whose
// denomination is gone or inactive are left out of the view but stay stored.
func (s *CartService) GetCart(ctx context.Context, userID string) (*transport.CartView, error) {
	view := &transport.CartView{Items: []transport.LineView{}, TotalPrice: decimal.Zero}

	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return view, nil
	}
	view.ID = &cart.ID

	denoms, err := s.Catalog.DenominationsByIDs(ctx, lo.Uniq(lo.Map(cart.Items, func(i models.CartItem, _ int) uuid.UUID {
		return i.DenominationID
	})))
	if err != nil {
		return nil, err
	}
	products, err := s.Catalog.ProductsByIDs(ctx, lo.Uniq(lo.Map(cart.Items, func(i models.CartItem, _ int) uuid.UUID {
		return i.ProductID
	})))
	if err != nil {
		return nil, err
	}
	denomByID := lo.KeyBy(denoms, func(d models.Denomination) uuid.UUID { return d.ID })
	productByID := lo.KeyBy(products, func(p models.Product) uuid.UUID { return p.ID })

	for _, item := range cart.Items {
		d, ok := denomByID[item.DenominationID]
		if !ok || !d.IsActive {
			continue
		}
		p, ok := productByID[item.ProductID]
		if !ok {
			continue
		}

		total := d.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, transport.LineView{
			ID:             item.ID,
			ProductID:      item.ProductID,
			DenominationID: item.DenominationID,
			Product:        transport.ProductRef{ID: p.ID, Name: p.Name, Slug: p.Slug, Image: p.Image},
			Denomination:   transport.DenominationRef{ID: d.ID, Amount: d.Amount, Price: d.Price, Discount: d.Discount},
			Quantity:       item.Quantity,
			GameUID:        item.GameUID,
			Server:         item.Server,
			PlayerID:       item.PlayerID,
			TotalPrice:     total,
		})
		view.TotalItems += item.Quantity
		view.TotalPrice = view.TotalPrice.Add(total)
	}
	return view, nil
}

func (s *CartService) AddItem(ctx context.Context, userID string, req transport.AddItemRequest) (uuid.UUID, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return uuid.Nil, apperr.Validation("Product not found")
	}
	denominationID, err := uuid.Parse(req.DenominationID)
	if err != nil {
		return uuid.Nil, apperr.Validation("Denomination not found")
	}
	if req.Quantity < 0 {
		return uuid.Nil, apperr.Validation("Quantity must be at least 1")
	}

	p, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}
	if p == nil || !p.IsActive {
		return uuid.Nil, apperr.Validation("Product not found")
	}

	d, err := s.Catalog.GetDenomination(ctx, denominationID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}
	if d == nil || !d.IsActive || d.ProductID != p.ID {
		return uuid.Nil, apperr.Validation("Denomination not found")
	}

	item := &models.CartItem{
		ProductID:      p.ID,
		DenominationID: d.ID,
		Quantity:       max(req.Quantity, 1),
		GameUID:        strings.TrimSpace(req.GameUID),
		Server:         strings.TrimSpace(req.Server),
		PlayerID:       strings.TrimSpace(req.PlayerID),
	}
	return s.Repo.AddItem(ctx, userID, item)
}

func (s *CartService) findItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.Repo.FindItem(ctx, userID, itemID)
	switch {
	case errors.Is(err, repo.ErrCartMissing):
		return nil, apperr.NotFound("Cart not found")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.NotFound("Cart item not found")
	case err != nil:
		return nil, err
	}
	return item, nil
}

// UpdateItem sets the line's quantity; zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID string, itemID uuid.UUID, req transport.UpdateItemRequest) error {
	if req.Quantity == nil || *req.Quantity < 0 {
		return apperr.Validation("Quantity must be zero or more")
	}

	item, err := s.findItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if *req.Quantity == 0 {
		return s.Repo.DeleteItem(ctx, item)
	}

	item.Quantity = *req.Quantity
	if req.GameUID != nil {
		item.GameUID = strings.TrimSpace(*req.GameUID)
	}
	if req.Server != nil {
		item.Server = *req.Server
	}
	if req.PlayerID != nil {
		item.PlayerID = *req.PlayerID
	}
	return s.Repo.SaveItem(ctx, item)
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	item, err := s.findItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.Repo.DeleteItem(ctx, item)
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.Repo.ClearCart(ctx, userID)
}
