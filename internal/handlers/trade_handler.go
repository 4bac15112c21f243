package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "minimarket/internal/errors"
	"minimarket/internal/models"
	"minimarket/internal/services"
)

// TradeHandler handles buy/sell orders and portfolio reads.
type TradeHandler struct {
	tradingService services.TradingServicer
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradingService services.TradingServicer) *TradeHandler {
	return &TradeHandler{tradingService: tradingService}
}

// TradeRequest represents a buy or sell order payload.
type TradeRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// Buy executes a purchase for the authenticated user.
func (h *TradeHandler) Buy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.tradingService.Buy(userID, req.ProductID, req.Quantity); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase completed"})
}

// Sell executes a sale back to the marketplace for the authenticated user.
func (h *TradeHandler) Sell(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.tradingService.Sell(userID, req.ProductID, req.Quantity); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale completed"})
}

// GetHoldings returns a page of the authenticated user's holdings.
func (h *TradeHandler) GetHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := parsePageRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.tradingService.GetHoldings(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, holdings)
}

// TransactionFilter narrows the ledger listing to one trade kind.
type TransactionFilter struct {
	Kind string `form:"kind" binding:"omitempty,trade_kind"`
}

// GetTransactions returns a page of the authenticated user's trade records,
// newest first, optionally filtered by kind.
func (h *TradeHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var filter TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var kind *models.TradeKind
	if filter.Kind != "" {
		k := models.TradeKind(filter.Kind)
		kind = &k
	}

	page, err := parsePageRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.tradingService.GetTransactions(userID, kind, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}
