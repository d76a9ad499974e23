// Package testdb provides an in-memory sqlite database with the full schema
// for package tests.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
)

// Open returns a migrated :memory: database. The pool holds a single
// connection, so transactions from concurrent goroutines run one after another.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func SeedUser(t testing.TB, db *gorm.DB, email string, role domain.Role) *models.User {
	t.Helper()

	u := &models.User{Email: email, PasswordHash: "x", FullName: email, Role: role}
	require.NoError(t, db.Create(u).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: u.ID}).Error)
	return u
}

func SeedProduct(t testing.TB, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()

	p, err := models.NewProduct(name, name+" description", decimal.RequireFromString(price), stock, "general", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(p).Error)
	return p
}

// PutInCart inserts a cart line directly, capturing the product's current price.
func PutInCart(t testing.TB, db *gorm.DB, userID uint, p *models.Product, qty int) *models.CartItem {
	t.Helper()

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", userID).First(&cart).Error)

	item := &models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: qty, Price: p.Price}
	require.NoError(t, db.Omit("Product").Create(item).Error)
	return item
}

func Count(t testing.TB, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
