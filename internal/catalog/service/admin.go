package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/catalog/transport"
	"github.com/Skotchmaster/topup_shop/internal/models"
)

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}
	if !c.IsActive {
		return nil, apperr.NotFound("Category not found")
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	sl, err := s.uniqueSlug(ctx, &models.Category{}, "Category", name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	c := &models.Category{
		Name:        name,
		Slug:        sl,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, duplicate(err, "Category")
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req transport.UpdateCategoryRequest) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		sl, err := s.uniqueSlug(ctx, &models.Category{}, "Category", name, c.ID)
		if err != nil {
			return nil, err
		}
		c.Name, c.Slug = name, sl
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Image != nil {
		c.Image = *req.Image
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, duplicate(err, "Category")
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.SetLifecycle(ctx, models.Category{}.TableName(), id, models.Inactive)
	return notFound(err, "Category not found")
}

func (s *CatalogService) activeCategory(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid category id")
	}
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return uuid.Nil, notFound(err, "Category not found")
	}
	if !c.IsActive {
		return uuid.Nil, apperr.NotFound("Category not found")
	}
	return c.ID, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*transport.ProductView, error) {
	categoryID, err := s.activeCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	denoms := make([]models.Denomination, 0, len(req.Denominations))
	for _, in := range req.Denominations {
		if in.Price.IsNegative() {
			return nil, apperr.Validation("Denomination price must not be negative")
		}
		denoms = append(denoms, models.Denomination{
			Amount:   in.Amount,
			Price:    in.Price,
			Discount: in.Discount,
			IsActive: true,
		})
	}

	name := strings.TrimSpace(req.Name)
	sl, err := s.uniqueSlug(ctx, &models.Product{}, "Product", name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	p := &models.Product{
		Name:             name,
		Slug:             sl,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Image:            req.Image,
		Images:           images,
		CategoryID:       categoryID,
		IsActive:         true,
		IsFeatured:       req.IsFeatured,
		SortOrder:        req.SortOrder,
	}
	if err := s.Repo.CreateProduct(ctx, p, denoms); err != nil {
		return nil, duplicate(err, "Product")
	}

	s.reindex(ctx, p)
	return s.view(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (*transport.ProductView, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		sl, err := s.uniqueSlug(ctx, &models.Product{}, "Product", name, p.ID)
		if err != nil {
			return nil, err
		}
		p.Name, p.Slug = name, sl
	}
	if req.CategoryID != nil {
		if p.CategoryID, err = s.activeCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ShortDescription != nil {
		p.ShortDescription = *req.ShortDescription
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	if req.SortOrder != nil {
		p.SortOrder = *req.SortOrder
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, duplicate(err, "Product")
	}

	// the lifecycle goes through SetLifecycle so deactivation cascades
	if req.IsActive != nil && *req.IsActive != p.IsActive {
		l := models.LifecycleOf(*req.IsActive)
		if err := s.Repo.SetLifecycle(ctx, p.TableName(), p.ID, l); err != nil {
			return nil, err
		}
		p.IsActive = l.IsActive()
	}

	s.reindex(ctx, p)
	return s.view(ctx, p)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.SetLifecycle(ctx, models.Product{}.TableName(), id, models.Inactive); err != nil {
		return notFound(err, "Product not found")
	}
	s.reindex(ctx, &models.Product{Base: models.Base{ID: id}, IsActive: false})
	return nil
}

// GetDenomination returns the row whatever its lifecycle.
func (s *CatalogService) GetDenomination(ctx context.Context, id uuid.UUID) (*models.Denomination, error) {
	d, err := s.Repo.GetDenomination(ctx, id)
	if err != nil {
		return nil, notFound(err, "Denomination not found")
	}
	return d, nil
}

func (s *CatalogService) AddDenomination(ctx context.Context, productID uuid.UUID, req transport.DenominationInput) (*models.Denomination, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, notFound(err, "Product not found")
	}
	if req.Price.IsNegative() {
		return nil, apperr.Validation("Denomination price must not be negative")
	}

	d := &models.Denomination{
		ProductID: productID,
		Amount:    req.Amount,
		Price:     req.Price,
		Discount:  req.Discount,
		IsActive:  true,
	}
	if err := s.Repo.CreateDenomination(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CatalogService) UpdateDenomination(ctx context.Context, id uuid.UUID, req transport.UpdateDenominationRequest) (*models.Denomination, error) {
	d, err := s.Repo.GetDenomination(ctx, id)
	if err != nil {
		return nil, notFound(err, "Denomination not found")
	}

	if req.Amount != nil {
		d.Amount = *req.Amount
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Validation("Denomination price must not be negative")
		}
		d.Price = *req.Price
	}
	if req.Discount != nil {
		d.Discount = *req.Discount
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	if err := s.Repo.SaveDenomination(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CatalogService) DeleteDenomination(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.SetLifecycle(ctx, models.Denomination{}.TableName(), id, models.Inactive)
	return notFound(err, "Denomination not found")
}
