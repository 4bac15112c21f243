package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "minimarket/internal/errors"
	"minimarket/internal/services"
)

// ProductHandler handles catalog requests: categories, products, price history.
type ProductHandler struct {
	productService services.ProductServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateProductRequest represents the request payload for listing a product.
// Money fields arrive as decimal strings so amounts are never parsed through
// floating point.
type CreateProductRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	Description string `json:"description" binding:"max=2000"`
	Price       string `json:"price" binding:"omitempty,money"`
	MinPrice    string `json:"min_price" binding:"omitempty,money"`
	MaxPrice    string `json:"max_price" binding:"omitempty,money"`
	Stock       uint   `json:"stock"`
}

// CreateCategory creates a new catalog category.
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.productService.CreateCategory(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories returns all catalog categories.
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// DeleteCategory removes an empty category.
func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.productService.DeleteCategory(categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// CreateProduct lists a new product authored by the authenticated user.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.ProductInput{
		Title:       req.Title,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Stock:       req.Stock,
	}
	if input.Price, err = parseMoney(req.Price); err != nil {
		respondWithError(c, err)
		return
	}
	if input.MinPrice, err = parseMoney(req.MinPrice); err != nil {
		respondWithError(c, err)
		return
	}
	if input.MaxPrice, err = parseMoney(req.MaxPrice); err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// GetProduct returns a single product.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.GetProduct(productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListProducts returns a page of products, optionally filtered by category.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, err := parsePageRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category_id"))
			return
		}
		parsed := uint(id)
		categoryID = &parsed
	}

	products, err := h.productService.ListProducts(categoryID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetPriceHistory returns a page of recorded price movements for a product,
// newest first.
func (h *ProductHandler) GetPriceHistory(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := parsePageRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := h.productService.GetPriceHistory(productID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// parseMoney converts an optional decimal string into a decimal value. An
// empty string yields zero, which the service replaces with its defaults.
func parseMoney(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid money amount: "+raw)
	}
	return d, nil
}
