package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// SetLifecycle moves one row of table into l. Going INACTIVE also
// deactivates the child rows listed in models.Cascades.
func (r *GormRepo) SetLifecycle(ctx context.Context, table string, id uuid.UUID, l models.Lifecycle) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Table(table).Where("id = ?", id).Updates(map[string]any{
			"is_active":  l.IsActive(),
			"updated_at": tx.NowFunc(),
		})
		if res.Error != nil {
			return fmt.Errorf("set %s lifecycle: %w", table, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if l.IsActive() {
			return nil
		}
		for _, c := range models.Cascades[table] {
			if err := tx.Table(c.Table).
				Where(c.ForeignKey+" = ? AND is_active = ?", id, true).
				Updates(map[string]any{"is_active": false, "updated_at": tx.NowFunc()}).Error; err != nil {
				return fmt.Errorf("cascade %s to %s: %w", table, c.Table, err)
			}
		}
		return nil
	})
}

// SlugTaken reports whether another row of model's table already uses slug.
func (r *GormRepo) SlugTaken(ctx context.Context, model any, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(model).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
