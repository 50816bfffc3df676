package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/pkg/db"
)

type storedItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type storedOrder struct {
	ID              uuid.UUID                       `gorm:"type:uuid;primaryKey"`
	OrderNumber     string                          `gorm:"uniqueIndex;not null"`
	UserID          string                          `gorm:"index;not null"`
	UserName        string                          `gorm:"not null"`
	UserEmail       string                          `gorm:"not null"`
	Items           datatypes.JSONSlice[storedItem] `gorm:"not null"`
	TotalAmount     decimal.Decimal                 `gorm:"type:decimal(12,2);not null"`
	PaymentMethod   string                          `gorm:"not null"`
	Status          string                          `gorm:"not null"`
	PaymentStatus   string                          `gorm:"not null"`
	ShippingName    string
	ShippingEmail   string
	ShippingPhone   string
	ShippingAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (storedOrder) TableName() string { return "fallback_orders" }

type storedPayment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	UserID        string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method        string          `gorm:"not null"`
	TransactionID string          `gorm:"not null"`
	Status        string          `gorm:"not null"`
	SenderNumber  string
	SenderName    string
	GameUID       string
	PlayerID      string
	CreatedAt     time.Time
}

func (storedPayment) TableName() string { return "fallback_payments" }

// StoreTier keeps orders in a client-held database with its own schema and
// id space.
type StoreTier struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewStoreTier(gdb *gorm.DB) (*StoreTier, error) {
	if err := gdb.AutoMigrate(&storedOrder{}, &storedPayment{}); err != nil {
		return nil, fmt.Errorf("migrate store tier: %w", err)
	}
	return &StoreTier{DB: gdb, Now: time.Now}, nil
}

// OpenStoreTier opens the sqlite file at path and prepares its schema. The
// caller owns the handle and must Close it.
func OpenStoreTier(path string) (*StoreTier, error) {
	gdb, err := db.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	t, err := NewStoreTier(gdb)
	if err != nil {
		if sqlDB, derr := gdb.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return t, nil
}

func (t *StoreTier) Close() error {
	sqlDB, err := t.DB.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func (t *StoreTier) Name() string { return "store" }

func (t *StoreTier) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *StoreTier) CreateOrder(ctx context.Context, req Request) (*Order, error) {
	now := t.now()
	address := req.GameUID
	if address == "" {
		address = "N/A"
	}

	row := &storedOrder{
		ID:          uuid.New(),
		OrderNumber: fmt.Sprintf("ORD-%d", now.UnixMilli()),
		UserID:      req.owner(),
		UserName:    req.Billing.FullName,
		UserEmail:   req.Billing.Email,
		Items: lo.Map(req.Lines, func(l Line, _ int) storedItem {
			return storedItem{ProductID: l.ProductID, ProductName: l.Name, Quantity: l.Quantity, Price: l.Price}
		}),
		TotalAmount:     req.Total(),
		PaymentMethod:   req.PaymentMethod,
		Status:          "pending",
		PaymentStatus:   "pending",
		ShippingName:    req.Billing.FullName,
		ShippingEmail:   req.Billing.Email,
		ShippingPhone:   req.Billing.Phone,
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := t.DB.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	return &Order{
		ID:            row.ID.String(),
		OrderNumber:   row.OrderNumber,
		Lines:         req.Lines,
		TotalAmount:   row.TotalAmount,
		Status:        row.Status,
		PaymentStatus: row.PaymentStatus,
		PaymentMethod: row.PaymentMethod,
		Billing:       req.Billing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (t *StoreTier) CreatePayment(ctx context.Context, o *Order, req Request) error {
	orderID, err := uuid.Parse(o.ID)
	if err != nil {
		return fmt.Errorf("store payment: order id: %w", err)
	}

	row := &storedPayment{
		ID:            uuid.New(),
		OrderID:       orderID,
		UserID:        req.owner(),
		Amount:        o.TotalAmount,
		Method:        req.PaymentMethod,
		TransactionID: req.TransactionID,
		Status:        "pending",
		SenderNumber:  req.SenderNumber,
		SenderName:    req.SenderName,
		GameUID:       req.GameUID,
		PlayerID:      req.PlayerID,
		CreatedAt:     t.now(),
	}
	if err := t.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("store payment: %w", err)
	}
	return nil
}

// Orders lists stored orders newest first.
func (t *StoreTier) Orders(ctx context.Context, userID string) ([]Order, error) {
	var rows []storedOrder
	q := t.DB.WithContext(ctx).Order("created_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	return lo.Map(rows, func(r storedOrder, _ int) Order {
		return Order{
			ID:          r.ID.String(),
			OrderNumber: r.OrderNumber,
			Lines: lo.Map(r.Items, func(i storedItem, _ int) Line {
				return Line{ProductID: i.ProductID, Name: i.ProductName, Quantity: i.Quantity, Price: i.Price}
			}),
			TotalAmount:   r.TotalAmount,
			Status:        r.Status,
			PaymentStatus: r.PaymentStatus,
			PaymentMethod: r.PaymentMethod,
			Billing:       Billing{FullName: r.ShippingName, Email: r.ShippingEmail, Phone: r.ShippingPhone},
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
		}
	}), nil
}
