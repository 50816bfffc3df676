package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/models"
)

type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string
	Featured   bool
	// IDs restricts the result to these products.
	IDs []uuid.UUID
	// All includes inactive products and orders newest first.
	All    bool
	Offset int
	Limit  int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f ProductFilter) apply(q *gorm.DB) *gorm.DB {
	if !f.All {
		q = q.Where("is_active = ?", true)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Featured {
		q = q.Where("is_featured = ?", true)
	}
	if f.IDs != nil {
		q = q.Where("id IN ?", f.IDs)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	var total int64
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Product{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := []models.Product{}
	q := f.apply(r.DB.WithContext(ctx).Model(&models.Product{}))
	if !f.All {
		q = q.Order("sort_order ASC")
	}
	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct writes the product and its initial denominations together.
func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product, denoms []models.Denomination) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for i := range denoms {
			denoms[i].ProductID = p.ID
			if err := tx.Create(&denoms[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

// ProductsByIDs returns the rows in any lifecycle state.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	items := []models.Product{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
