package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "minimarket/internal/errors"
	"minimarket/internal/models"
	"minimarket/internal/pagination"
)

// ProductInput carries the fields of a product submission. Zero-valued
// prices and stock fall back to catalog defaults.
type ProductInput struct {
	Title       string
	CategoryID  uint
	Description string
	Price       decimal.Decimal
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	Stock       uint
}

// Catalog defaults, matching the seeded marketplace.
var (
	defaultPrice    = decimal.NewFromInt(10)
	defaultMinPrice = decimal.NewFromInt(1)
	defaultMaxPrice = decimal.NewFromInt(10000)
)

const defaultStock = 100

// productService handles the catalog: categories, product listings, and
// price history. Price and stock are owned by the ledger services; this
// service only sets them at creation time.
type productService struct {
	db           *gorm.DB
	tickInterval time.Duration
}

// NewProductService creates a new ProductServicer. tickInterval determines
// how long a new product's price is frozen before its first tick.
func NewProductService(db *gorm.DB, tickInterval time.Duration) ProductServicer {
	return &productService{db: db, tickInterval: tickInterval}
}

// CreateCategory creates a catalog category.
func (s *productService) CreateCategory(name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category := &models.Category{Name: name}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *productService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// DeleteCategory removes a category. Categories still referenced by
// products cannot be deleted.
func (s *productService) DeleteCategory(categoryID uint) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var inUse int64
	if err := s.db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&inUse).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if inUse > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateProduct lists a new product authored by the given user. The first
// price tick becomes possible one interval after creation.
func (s *productService) CreateProduct(authorID uint, input ProductInput) (*models.Product, error) {
	if input.Title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "product title is required")
	}

	var category models.Category
	if err := s.db.First(&category, input.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	price := input.Price
	if price.IsZero() {
		price = defaultPrice
	}
	minPrice := input.MinPrice
	if minPrice.IsZero() {
		minPrice = defaultMinPrice
	}
	maxPrice := input.MaxPrice
	if maxPrice.IsZero() {
		maxPrice = defaultMaxPrice
	}
	stock := input.Stock
	if stock == 0 {
		stock = defaultStock
	}

	if price.IsNegative() || minPrice.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "prices must not be negative")
	}
	if minPrice.GreaterThan(price) || price.GreaterThan(maxPrice) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must lie within [min_price, max_price]")
	}

	product := &models.Product{
		Title:        input.Title,
		CategoryID:   input.CategoryID,
		Description:  input.Description,
		Price:        price,
		Stock:        stock,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		NextChangeAt: time.Now().Add(s.tickInterval),
		AuthorID:     &authorID,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	product.Category = category
	return product, nil
}

// GetProduct returns a product by id with its category and author.
func (s *productService) GetProduct(productID uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Preload("Author").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

// ListProducts returns a paginated product listing, optionally filtered by
// category.
func (s *productService) ListProducts(categoryID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.Product], error) {
	page.Defaults()

	base := s.db.Model(&models.Product{})
	if categoryID != nil {
		base = base.Where("category_id = ?", *categoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var products []models.Product
	if err := base.Preload("Category").Order("title ASC").
		Scopes(pagination.Paginate(page)).Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(products, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPriceHistory returns a product's recorded price changes, newest first.
func (s *productService) GetPriceHistory(productID uint, page pagination.PageRequest) (*pagination.PageResponse[models.PriceHistory], error) {
	page.Defaults()

	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}

	var totalItems int64
	base := s.db.Model(&models.PriceHistory{}).Where("product_id = ?", productID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var history []models.PriceHistory
	if err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(history, page.Page, page.PageSize, totalItems)
	return &result, nil
}
