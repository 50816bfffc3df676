package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/catalog/repo"
	"github.com/Skotchmaster/topup_shop/internal/catalog/transport"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/internal/slug"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	"github.com/Skotchmaster/topup_shop/pkg/search"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	AdminPageSize   = 20
	featuredLimit   = 8
)

// Indexer is the full-text product index. A nil Indexer means searches go
// straight to the database.
type Indexer interface {
	IndexProduct(ctx context.Context, doc search.ProductDoc) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []string, error)
}

type CatalogService struct {
	Repo  *repo.GormRepo
	Index Indexer
}

func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s", msg)
	}
	return err
}

func (s *CatalogService) ListProducts(ctx context.Context, q transport.ListProductsQuery) (*transport.ProductList, error) {
	page, offset, limit := util.Calculate(q.Page, q.Limit, DefaultPageSize, MaxPageSize)
	f := repo.ProductFilter{Search: q.Search, Featured: q.Featured, Offset: offset, Limit: limit}

	if q.CategoryID != "" {
		id, err := uuid.Parse(q.CategoryID)
		if err != nil {
			return nil, apperr.Validation("Invalid category id")
		}
		f.CategoryID = &id
	}
	return s.list(ctx, f, page, limit)
}

func (s *CatalogService) AdminListProducts(ctx context.Context, page, size int) (*transport.ProductList, error) {
	page, offset, limit := util.Calculate(page, size, AdminPageSize, MaxPageSize)
	return s.list(ctx, repo.ProductFilter{All: true, Offset: offset, Limit: limit}, page, limit)
}

func (s *CatalogService) list(ctx context.Context, f repo.ProductFilter, page, limit int) (*transport.ProductList, error) {
	total, items, err := s.Repo.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, items)
	if err != nil {
		return nil, err
	}
	return &transport.ProductList{Products: views, Pagination: util.Meta(page, limit, total)}, nil
}

func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]transport.ProductView, error) {
	_, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Featured: true, Limit: featuredLimit})
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, items)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*transport.ProductView, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	if !p.IsActive {
		return nil, apperr.NotFound("Product not found")
	}
	return s.view(ctx, p)
}

func (s *CatalogService) ProductsByCategorySlug(ctx context.Context, categorySlug string, page, size int) (*transport.CategoryProducts, error) {
	c, err := s.Repo.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}
	if !c.IsActive {
		return nil, apperr.NotFound("Category not found")
	}

	page, offset, limit := util.Calculate(page, size, DefaultPageSize, MaxPageSize)
	list, err := s.list(ctx, repo.ProductFilter{CategoryID: &c.ID, Offset: offset, Limit: limit}, page, limit)
	if err != nil {
		return nil, err
	}
	return &transport.CategoryProducts{Category: *c, Products: list.Products, Pagination: list.Pagination}, nil
}

// SearchProducts asks the index first and falls back to a substring match
// in the database when there is no index or it fails.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, size int) (*transport.ProductList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("Search query is required")
	}
	page, offset, limit := util.Calculate(page, size, DefaultPageSize, MaxPageSize)

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			return s.fromHits(ctx, ids, total, page, limit)
		}
		logging.FromContext(ctx).Warn("search_index_failed", "query", query, "error", err)
	}

	return s.list(ctx, repo.ProductFilter{Search: query, Offset: offset, Limit: limit}, page, limit)
}

// fromHits loads the products behind index hits and keeps the index order.
func (s *CatalogService) fromHits(ctx context.Context, hits []string, total int64, page, limit int) (*transport.ProductList, error) {
	ids := lo.FilterMap(hits, func(h string, _ int) (uuid.UUID, bool) {
		id, err := uuid.Parse(h)
		return id, err == nil
	})

	_, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(items, func(p models.Product) uuid.UUID { return p.ID })
	ordered := lo.FilterMap(ids, func(id uuid.UUID, _ int) (models.Product, bool) {
		p, ok := byID[id]
		return p, ok
	})

	views, err := s.decorate(ctx, ordered)
	if err != nil {
		return nil, err
	}
	return &transport.ProductList{Products: views, Pagination: util.Meta(page, limit, total)}, nil
}

func (s *CatalogService) view(ctx context.Context, p *models.Product) (*transport.ProductView, error) {
	views, err := s.decorate(ctx, []models.Product{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// decorate attaches active denominations and the category summary to each
// product. Denominations and categories are fetched once for the whole set.
func (s *CatalogService) decorate(ctx context.Context, products []models.Product) ([]transport.ProductView, error) {
	ids := lo.Map(products, func(p models.Product, _ int) uuid.UUID { return p.ID })
	denoms, err := s.Repo.ActiveDenominations(ctx, ids)
	if err != nil {
		return nil, err
	}
	byProduct := lo.GroupBy(denoms, func(d models.Denomination) uuid.UUID { return d.ProductID })

	catIDs := lo.Uniq(lo.Map(products, func(p models.Product, _ int) uuid.UUID { return p.CategoryID }))
	cats, err := s.Repo.CategoriesByIDs(ctx, catIDs)
	if err != nil {
		return nil, err
	}
	catByID := lo.KeyBy(cats, func(c models.Category) uuid.UUID { return c.ID })

	views := make([]transport.ProductView, 0, len(products))
	for _, p := range products {
		v := transport.ProductView{
			Product:       p,
			Denominations: lo.Map(byProduct[p.ID], denominationView),
		}
		if c, ok := catByID[p.CategoryID]; ok {
			v.Category = &transport.CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug, Image: c.Image}
		}
		views = append(views, v)
	}
	return views, nil
}

func denominationView(d models.Denomination, _ int) transport.DenominationView {
	return transport.DenominationView{ID: d.ID, Amount: d.Amount, Price: d.Price, Discount: d.Discount}
}

// uniqueSlug derives the slug for name and fails when another row of the
// same table already holds it.
func (s *CatalogService) uniqueSlug(ctx context.Context, model any, kind, name string, self uuid.UUID) (string, error) {
	sl := slug.Make(name)
	if sl == "" {
		return "", apperr.Validation("%s name must contain letters or digits", kind)
	}
	taken, err := s.Repo.SlugTaken(ctx, model, sl, self)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperr.Conflict("%s with similar name already exists", kind)
	}
	return sl, nil
}

func duplicate(err error, kind string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("%s with similar name already exists", kind)
	}
	return err
}

// reindex keeps the search index in step with a product row. Index
// failures are logged; the database stays authoritative.
func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}

	var err error
	if p.IsActive {
		err = s.Index.IndexProduct(ctx, search.ProductDoc{
			ID:               p.ID.String(),
			Name:             p.Name,
			Slug:             p.Slug,
			Description:      p.Description,
			ShortDescription: p.ShortDescription,
			CategoryID:       p.CategoryID.String(),
		})
	} else {
		err = s.Index.DeleteProduct(ctx, p.ID.String())
	}
	if err != nil {
		logging.FromContext(ctx).Warn("reindex_product_failed", "product_id", p.ID, "error", err)
	}
}
