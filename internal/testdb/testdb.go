// Package testdb opens migrated in-memory databases and seeds catalog rows
// for package tests.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/topup_shop/internal/models"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate tables")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func Category(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()

	c := &models.Category{Name: name, Slug: uuid.NewString(), IsActive: true}
	require.NoError(t, db.Create(c).Error)
	return c
}

func Product(t testing.TB, db *gorm.DB, categoryID uuid.UUID, name string) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:       name,
		Slug:       uuid.NewString(),
		CategoryID: categoryID,
		Images:     []string{},
		IsActive:   true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func Denomination(t testing.TB, db *gorm.DB, productID uuid.UUID, amount int, price string) *models.Denomination {
	t.Helper()

	d := &models.Denomination{
		ProductID: productID,
		Amount:    amount,
		Price:     decimal.RequireFromString(price),
		IsActive:  true,
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

// Listing seeds one active category, product and denomination.
func Listing(t testing.TB, db *gorm.DB, price string) (*models.Product, *models.Denomination) {
	t.Helper()

	c := Category(t, db, "Mobile Games")
	p := Product(t, db, c.ID, "PUBG Mobile UC")
	d := Denomination(t, db, p.ID, 60, price)
	return p, d
}

// Order seeds a PENDING order with a single line priced at total.
func Order(t testing.TB, db *gorm.DB, userID, total string) *models.Order {
	t.Helper()

	p, d := Listing(t, db, total)
	amount := decimal.RequireFromString(total)
	o := &models.Order{
		OrderNumber:   "ORD-" + uuid.NewString()[:13],
		UserID:        userID,
		TotalAmount:   amount,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: models.MethodBkash,
		BillingInfo:   models.BillingInfo{FullName: "Test Buyer", Email: "buyer@example.com", Phone: "01700000000"},
		Items: []models.OrderItem{{
			ProductID:          p.ID,
			DenominationID:     d.ID,
			ProductName:        p.Name,
			DenominationAmount: d.Amount,
			Quantity:           1,
			UnitPrice:          amount,
			TotalPrice:         amount,
		}},
	}
	require.NoError(t, db.Create(o).Error)
	return o
}
