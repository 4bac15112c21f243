package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "minimarket/internal/errors"
	"minimarket/internal/logger"
	"minimarket/internal/models"
	"minimarket/internal/money"
)

// backfillService retroactively creates SELL_REVENUE ledger entries for
// historical purchases made before author credit existed (or while it was
// disabled), crediting each product author with the amount they would have
// earned at the time of the trade.
type backfillService struct {
	db      *gorm.DB
	feeRate decimal.Decimal
}

// NewBackfillService creates a new BackfillServicer.
func NewBackfillService(db *gorm.DB, feeRate decimal.Decimal) BackfillServicer {
	return &backfillService{db: db, feeRate: feeRate}
}

// Run walks BUY transactions in ascending id order (capped at limit when
// limit > 0) and creates the missing SELL_REVENUE entry for each one that
// has a distinct author and no revenue entry yet. Idempotent: a second run
// creates nothing, and the unique index on original_tx_id backstops races.
//
// dryRun counts what would be created without mutating anything. The whole
// batch runs in one transaction; any failure aborts it with no partial
// credits.
func (s *backfillService) Run(dryRun bool, limit int) (created, skipped int, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Preload("Product").
			Where("kind = ?", models.TradeKindBuy).
			Order("id ASC")
		if limit > 0 {
			q = q.Limit(limit)
		}

		var buys []models.Transaction
		if err := q.Find(&buys).Error; err != nil {
			return storeErr(err)
		}

		for i := range buys {
			buy := &buys[i]

			// No author, or the buyer bought their own product: nothing
			// was ever owed.
			if buy.Product.AuthorID == nil || *buy.Product.AuthorID == buy.UserID {
				skipped++
				continue
			}

			var existing int64
			if err := tx.Model(&models.Transaction{}).
				Where("kind = ? AND original_tx_id = ?", models.TradeKindSellRevenue, buy.ID).
				Count(&existing).Error; err != nil {
				return storeErr(err)
			}
			if existing > 0 {
				skipped++
				continue
			}

			gross := money.Mul(buy.PriceAtTrade, int(buy.Quantity))
			fee := money.Fee(gross, s.feeRate)
			gain := gross.Sub(fee)

			if !dryRun {
				var authorProfile models.Profile
				if err := lockForUpdate(tx).
					Where("user_id = ?", *buy.Product.AuthorID).
					First(&authorProfile).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.ErrProfileNotFound
					}
					return storeErr(err)
				}

				authorProfile.Balance = authorProfile.Balance.Add(gain)
				if err := tx.Model(&authorProfile).Update("balance", authorProfile.Balance).Error; err != nil {
					return storeErr(err)
				}

				revenueTx := &models.Transaction{
					UserID:       *buy.Product.AuthorID,
					ProductID:    buy.ProductID,
					Kind:         models.TradeKindSellRevenue,
					Quantity:     buy.Quantity,
					PriceAtTrade: buy.PriceAtTrade,
					FeeAmount:    fee,
					OriginalTxID: &buy.ID,
				}
				if err := tx.Create(revenueTx).Error; err != nil {
					return storeErr(err)
				}
			}

			created++
		}

		return nil
	})
	if err != nil {
		return 0, 0, asAppError(err)
	}

	logger.Get().Infow("seller revenue backfill completed",
		"created", created,
		"skipped", skipped,
		"dry_run", dryRun,
	)
	return created, skipped, nil
}
