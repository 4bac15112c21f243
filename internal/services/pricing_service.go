package services

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"minimarket/internal/logger"
	"minimarket/internal/models"
	"minimarket/internal/money"
)

// PricingConfig bounds the randomized price movement. Each due product moves
// up or down by a uniform integer percentage in [MinPercent, MaxPercent]
// and is then frozen for Interval.
type PricingConfig struct {
	MinPercent int
	MaxPercent int
	Interval   time.Duration
}

type pricingService struct {
	db  *gorm.DB
	cfg PricingConfig
	rng *rand.Rand
}

// NewPricingService creates a new PricingServicer. Pass a seeded rng for
// deterministic behavior in tests; nil uses a randomly seeded source.
func NewPricingService(db *gorm.DB, cfg PricingConfig, rng *rand.Rand) PricingServicer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &pricingService{db: db, cfg: cfg, rng: rng}
}

// RunPriceTick perturbs the price of every product whose change window has
// elapsed. The whole batch is locked and committed as one transaction: a
// concurrent trade can never read a price mid-tick, and an abort leaves no
// partial history or price updates behind.
//
// Returns the number of products whose price actually changed, which can be
// less than the number visited: a move clamped back to the current price
// writes no history row.
func (s *pricingService) RunPriceTick(now time.Time) (int, error) {
	changed := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var due []models.Product
		if err := lockForUpdate(tx).
			Where("next_change_at <= ?", now).
			Order("id ASC").
			Find(&due).Error; err != nil {
			return storeErr(err)
		}

		next := now.Add(s.cfg.Interval)
		for i := range due {
			p := &due[i]

			pct := s.cfg.MinPercent
			if s.cfg.MaxPercent > s.cfg.MinPercent {
				pct += s.rng.IntN(s.cfg.MaxPercent - s.cfg.MinPercent + 1)
			}
			if s.rng.IntN(2) == 0 {
				pct = -pct
			}

			// factor = 1 + pct/100, exact at two fractional digits.
			factor := decimal.New(int64(100+pct), -2)
			newPrice := money.Clamp(money.Round(p.Price.Mul(factor)), p.MinPrice, p.MaxPrice)

			if !newPrice.Equal(p.Price) {
				history := &models.PriceHistory{
					ProductID: p.ID,
					OldPrice:  p.Price,
					NewPrice:  newPrice,
					Reason:    "tick",
				}
				if err := tx.Create(history).Error; err != nil {
					return storeErr(err)
				}
				p.Price = newPrice
				changed++
			}

			// The window advances even when the price stayed put, so each
			// product gets exactly one tick opportunity per interval.
			p.NextChangeAt = next
			if err := tx.Model(p).Updates(map[string]interface{}{
				"price":          p.Price,
				"next_change_at": p.NextChangeAt,
			}).Error; err != nil {
				return storeErr(err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, asAppError(err)
	}

	logger.Get().Infow("price tick completed", "changed", changed)
	return changed, nil
}
