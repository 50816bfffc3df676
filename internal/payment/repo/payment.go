package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/models"
	pkgdb "github.com/Skotchmaster/topup_shop/pkg/db"
)

var (
	ErrTransactionUsed = errors.New("transaction id already used")
	// ErrPaymentClosed means the order's payment status became terminal
	// while the submission was in flight.
	ErrPaymentClosed = errors.New("payment status is terminal")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) TransactionUsed(ctx context.Context, txID string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Payment{}).Where("transaction_id = ?", txID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Submit records p and moves its order's payment status to PROCESSING in
// one transaction. The unique index on transaction_id backs the re-check.
func (r *GormRepo) Submit(ctx context.Context, p *models.Payment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := pkgdb.ForUpdate(tx).First(&o, "id = ?", p.OrderID).Error; err != nil {
			return err
		}
		if !o.PaymentStatus.CanTransition(models.PaymentProcessing) {
			return ErrPaymentClosed
		}

		var n int64
		if err := tx.Model(&models.Payment{}).Where("transaction_id = ?", p.TransactionID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrTransactionUsed
		}

		if err := tx.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTransactionUsed
			}
			return err
		}
		return tx.Model(&o).Updates(map[string]any{
			"payment_status": string(models.PaymentProcessing),
			"updated_at":     tx.NowFunc(),
		}).Error
	})
}

// LatestPayment returns nil without an error when the order has none.
func (r *GormRepo) LatestPayment(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at DESC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
