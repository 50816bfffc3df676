package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

type OrderFilter struct {
	UserID        string
	Status        string
	PaymentStatus string
	Offset        int
	Limit         int
}

func (f OrderFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	return q
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

func (r *GormRepo) NumberTaken(ctx context.Context, number string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("order_number = ?", number).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateOrder writes the order and its items in one transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := withItems(r.DB.WithContext(ctx)).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) GetUserOrder(ctx context.Context, id uuid.UUID, userID string) (*models.Order, error) {
	var o models.Order
	if err := withItems(r.DB.WithContext(ctx)).First(&o, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	var o models.Order
	if err := withItems(r.DB.WithContext(ctx)).First(&o, "order_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns newest first.
func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) (int64, []models.Order, error) {
	var total int64
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Order{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := []models.Order{}
	if err := withItems(f.apply(r.DB.WithContext(ctx).Model(&models.Order{}))).
		Order("created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// SaveStatus writes the review fields only; items are immutable.
func (r *GormRepo) SaveStatus(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Model(o).Updates(map[string]any{
		"status":         string(o.Status),
		"payment_status": string(o.PaymentStatus),
		"notes":          o.Notes,
		"updated_at":     r.DB.NowFunc(),
	}).Error
}
