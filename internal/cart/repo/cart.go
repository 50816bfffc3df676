package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/topup_shop/internal/models"
	pkgdb "github.com/Skotchmaster/topup_shop/pkg/db"
)

type GormRepo struct {
	DB *gorm.DB
}

// GetCart returns nil without an error when the user has no cart yet.
func (r *GormRepo) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem merges item into the user's cart, creating the cart on first use.
// A line with the same product, denomination and game uid absorbs the
// quantity; the optional server and player id are overwritten when given.
func (r *GormRepo) AddItem(ctx context.Context, userID string, item *models.CartItem) (uuid.UUID, error) {
	var cartID uuid.UUID
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh := models.Cart{UserID: userID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&fresh).Error; err != nil {
			return err
		}

		var cart models.Cart
		if err := pkgdb.ForUpdate(tx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		cartID = cart.ID

		var existing models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ? AND denomination_id = ? AND game_uid = ?",
			cart.ID, item.ProductID, item.DenominationID, item.GameUID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item.CartID = cart.ID
			return tx.Create(item).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]any{"quantity": gorm.Expr("quantity + ?", item.Quantity)}
		if item.Server != "" {
			updates["server"] = item.Server
		}
		if item.PlayerID != "" {
			updates["player_id"] = item.PlayerID
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(item, "id = ?", existing.ID).Error
	})
	return cartID, err
}

var ErrCartMissing = errors.New("cart not found")

// FindItem returns ErrCartMissing when the user has no cart and
// gorm.ErrRecordNotFound when the line is not in it.
func (r *GormRepo) FindItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.CartItem, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartMissing
		}
		return nil, err
	}

	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *GormRepo) DeleteItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Delete(item).Error
}

// ClearCart deletes the cart row and its lines.
func (r *GormRepo) ClearCart(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
}
