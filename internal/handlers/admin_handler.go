package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "minimarket/internal/errors"
	"minimarket/internal/services"
)

// AdminHandler exposes the maintenance operations normally run by the
// scheduled binaries, so operators can trigger them over HTTP.
type AdminHandler struct {
	pricingService  services.PricingServicer
	backfillService services.BackfillServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(pricingService services.PricingServicer, backfillService services.BackfillServicer) *AdminHandler {
	return &AdminHandler{pricingService: pricingService, backfillService: backfillService}
}

// BackfillRequest represents the backfill trigger payload.
type BackfillRequest struct {
	DryRun bool `json:"dry_run"`
	Limit  int  `json:"limit" binding:"omitempty,min=1"`
}

// RunPriceTick re-rolls prices for every product whose change window has
// elapsed and reports how many moved.
func (h *AdminHandler) RunPriceTick(c *gin.Context) {
	changed, err := h.pricingService.RunPriceTick(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// RunBackfill creates missing seller-revenue records for historical purchases.
func (h *AdminHandler) RunBackfill(c *gin.Context) {
	// an empty body means a full live run
	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	created, skipped, err := h.backfillService.Run(req.DryRun, req.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"skipped": skipped,
		"dry_run": req.DryRun,
	})
}
