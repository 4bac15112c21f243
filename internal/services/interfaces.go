package services

import (
	"time"

	"minimarket/internal/models"
	"minimarket/internal/pagination"
)

// UserServicer handles registration, login, and profile access.
type UserServicer interface {
	Register(email, password, displayName string) (*models.User, error)
	Login(email, password string) (*models.User, error)
	GetProfile(userID uint) (*models.Profile, error)
}

// ProductServicer handles the catalog: categories, listings, price history.
type ProductServicer interface {
	CreateCategory(name string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	DeleteCategory(categoryID uint) error

	CreateProduct(authorID uint, input ProductInput) (*models.Product, error)
	GetProduct(productID uint) (*models.Product, error)
	ListProducts(categoryID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.Product], error)
	GetPriceHistory(productID uint, page pagination.PageRequest) (*pagination.PageResponse[models.PriceHistory], error)
}

// TradingServicer executes the atomic ledger operations and reads the
// resulting portfolio state.
type TradingServicer interface {
	Buy(userID, productID uint, qty int) error
	Sell(userID, productID uint, qty int) error
	GetHoldings(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error)
	GetTransactions(userID uint, kind *models.TradeKind, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// PricingServicer runs the scheduled randomized price tick.
type PricingServicer interface {
	RunPriceTick(now time.Time) (int, error)
}

// BackfillServicer retroactively creates missing seller-revenue records.
type BackfillServicer interface {
	Run(dryRun bool, limit int) (created, skipped int, err error)
}
