package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"minimarket/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Dec parses a decimal literal, failing the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a user with a hashed password, a unique email, and
// a profile holding the given balance.
func CreateTestUser(t *testing.T, db *gorm.DB, balance string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	profile := &models.Profile{
		UserID:  user.ID,
		Balance: Dec(t, balance),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	user.Profile = profile

	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{Name: fmt.Sprintf("Test Category %d", nextID())}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestProduct creates a product with the given price and stock,
// authored by authorID (nil for an orphan product). Price bounds default to
// [1.00, 10000.00] and the first tick is due immediately.
func CreateTestProduct(t *testing.T, db *gorm.DB, authorID *uint, price string, stock uint) *models.Product {
	t.Helper()

	category := CreateTestCategory(t, db)
	product := &models.Product{
		Title:        fmt.Sprintf("Test Product %d", nextID()),
		CategoryID:   category.ID,
		Price:        Dec(t, price),
		Stock:        stock,
		MinPrice:     Dec(t, "1.00"),
		MaxPrice:     Dec(t, "10000.00"),
		NextChangeAt: time.Now().Add(-time.Minute),
		AuthorID:     authorID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestHolding creates a holding row for the given user and product.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID, productID uint, quantity uint) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestBuy appends a BUY ledger entry, as the trading engine would.
func CreateTestBuy(t *testing.T, db *gorm.DB, userID, productID uint, quantity uint, price string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:       userID,
		ProductID:    productID,
		Kind:         models.TradeKindBuy,
		Quantity:     quantity,
		PriceAtTrade: Dec(t, price),
		FeeAmount:    decimal.Zero,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// ReloadProfile fetches the current profile row for a user.
func ReloadProfile(t *testing.T, db *gorm.DB, userID uint) *models.Profile {
	t.Helper()

	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	return &profile
}

// ReloadProduct fetches the current product row.
func ReloadProduct(t *testing.T, db *gorm.DB, productID uint) *models.Product {
	t.Helper()

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	return &product
}

// ReloadHolding fetches the holding row for (user, product), or fails.
func ReloadHolding(t *testing.T, db *gorm.DB, userID, productID uint) *models.Holding {
	t.Helper()

	var holding models.Holding
	if err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&holding).Error; err != nil {
		t.Fatalf("failed to reload holding: %v", err)
	}
	return &holding
}
