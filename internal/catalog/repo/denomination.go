package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/topup_shop/internal/models"
)

func (r *GormRepo) GetDenomination(ctx context.Context, id uuid.UUID) (*models.Denomination, error) {
	var d models.Denomination
	if err := r.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ActiveDenominations loads the active denominations of every product in
// productIDs with one query, cheapest amount first.
func (r *GormRepo) ActiveDenominations(ctx context.Context, productIDs []uuid.UUID) ([]models.Denomination, error) {
	items := []models.Denomination{}
	if len(productIDs) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).
		Where("product_id IN ? AND is_active = ?", productIDs, true).
		Order("amount ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateDenomination(ctx context.Context, d *models.Denomination) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

func (r *GormRepo) SaveDenomination(ctx context.Context, d *models.Denomination) error {
	return r.DB.WithContext(ctx).Save(d).Error
}

// DenominationsByIDs returns the rows in any lifecycle state.
func (r *GormRepo) DenominationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Denomination, error) {
	items := []models.Denomination{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
