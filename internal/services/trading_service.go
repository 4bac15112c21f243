package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "minimarket/internal/errors"
	"minimarket/internal/models"
	"minimarket/internal/money"
	"minimarket/internal/pagination"
)

// tradingService executes buy and sell operations against the ledger.
//
// Every operation runs in one gorm transaction and acquires exclusive row
// locks in a fixed global order — Product, buyer Profile, Holding, then
// (conditionally) author Profile — so concurrent buys and sells on the same
// product cannot deadlock or observe partial state.
type tradingService struct {
	db      *gorm.DB
	feeRate decimal.Decimal
}

// NewTradingService creates a new TradingServicer. feeRate is the platform
// fraction deducted from seller proceeds, e.g. 0.10 for 10%.
func NewTradingService(db *gorm.DB, feeRate decimal.Decimal) TradingServicer {
	return &tradingService{db: db, feeRate: feeRate}
}

// Buy purchases qty units of a product for the user: debits the balance,
// decrements stock, increments the holding, and appends a BUY ledger entry.
// If the product was listed by a different user, that author is credited
// with the purchase total minus the platform fee and a SELL_REVENUE entry
// referencing the BUY is appended.
func (s *tradingService) Buy(userID, productID uint, qty int) error {
	if qty < 1 {
		return apperrors.ErrInvalidQuantity
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, profile, err := lockProductAndProfile(tx, productID, userID)
		if err != nil {
			return err
		}

		var holding models.Holding
		err = lockForUpdate(tx).
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			holding = models.Holding{UserID: userID, ProductID: productID, Quantity: 0}
			if err := tx.Create(&holding).Error; err != nil {
				return storeErr(err)
			}
		} else if err != nil {
			return storeErr(err)
		}

		totalCost := money.Mul(product.Price, qty)

		// Both checks precede any mutation.
		if totalCost.GreaterThan(profile.Balance) {
			return apperrors.ErrInsufficientFunds
		}
		if uint(qty) > product.Stock {
			return apperrors.ErrInsufficientStock
		}

		profile.Balance = profile.Balance.Sub(totalCost)
		if err := tx.Model(profile).Update("balance", profile.Balance).Error; err != nil {
			return storeErr(err)
		}

		product.Stock -= uint(qty)
		if err := tx.Model(product).Update("stock", product.Stock).Error; err != nil {
			return storeErr(err)
		}

		holding.Quantity += uint(qty)
		if err := tx.Model(&holding).Update("quantity", holding.Quantity).Error; err != nil {
			return storeErr(err)
		}

		buyTx := &models.Transaction{
			UserID:       userID,
			ProductID:    productID,
			Kind:         models.TradeKindBuy,
			Quantity:     uint(qty),
			PriceAtTrade: product.Price,
			FeeAmount:    decimal.Zero,
		}
		if err := tx.Create(buyTx).Error; err != nil {
			return storeErr(err)
		}

		// Credit the listing author, unless the buyer bought their own
		// product.
		if product.AuthorID != nil && *product.AuthorID != userID {
			var authorProfile models.Profile
			if err := lockForUpdate(tx).
				Where("user_id = ?", *product.AuthorID).
				First(&authorProfile).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.ErrProfileNotFound
				}
				return storeErr(err)
			}

			fee := money.Fee(totalCost, s.feeRate)
			gain := totalCost.Sub(fee)

			authorProfile.Balance = authorProfile.Balance.Add(gain)
			if err := tx.Model(&authorProfile).Update("balance", authorProfile.Balance).Error; err != nil {
				return storeErr(err)
			}

			revenueTx := &models.Transaction{
				UserID:       *product.AuthorID,
				ProductID:    productID,
				Kind:         models.TradeKindSellRevenue,
				Quantity:     uint(qty),
				PriceAtTrade: product.Price,
				FeeAmount:    fee,
				OriginalTxID: &buyTx.ID,
			}
			if err := tx.Create(revenueTx).Error; err != nil {
				return storeErr(err)
			}
		}

		return nil
	})
	return asAppError(err)
}

// Sell returns qty units from the user's holding to the product's stock and
// credits the seller with the gross proceeds minus the platform fee. The fee
// is retained by the platform and credited to no account.
func (s *tradingService) Sell(userID, productID uint, qty int) error {
	if qty < 1 {
		return apperrors.ErrInvalidQuantity
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, profile, err := lockProductAndProfile(tx, productID, userID)
		if err != nil {
			return err
		}

		var holding models.Holding
		err = lockForUpdate(tx).
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoSuchHolding
		} else if err != nil {
			return storeErr(err)
		}

		if uint(qty) > holding.Quantity {
			return apperrors.ErrInsufficientHolding
		}

		gross := money.Mul(product.Price, qty)
		fee := money.Fee(gross, s.feeRate)
		net := gross.Sub(fee)

		holding.Quantity -= uint(qty)
		if err := tx.Model(&holding).Update("quantity", holding.Quantity).Error; err != nil {
			return storeErr(err)
		}

		profile.Balance = profile.Balance.Add(net)
		if err := tx.Model(profile).Update("balance", profile.Balance).Error; err != nil {
			return storeErr(err)
		}

		product.Stock += uint(qty)
		if err := tx.Model(product).Update("stock", product.Stock).Error; err != nil {
			return storeErr(err)
		}

		sellTx := &models.Transaction{
			UserID:       userID,
			ProductID:    productID,
			Kind:         models.TradeKindSell,
			Quantity:     uint(qty),
			PriceAtTrade: product.Price,
			FeeAmount:    fee,
		}
		if err := tx.Create(sellTx).Error; err != nil {
			return storeErr(err)
		}

		return nil
	})
	return asAppError(err)
}

// lockProductAndProfile acquires the first two locks of the global order.
func lockProductAndProfile(tx *gorm.DB, productID, userID uint) (*models.Product, *models.Profile, error) {
	var product models.Product
	if err := lockForUpdate(tx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrProductNotFound
		}
		return nil, nil, storeErr(err)
	}

	var profile models.Profile
	if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrProfileNotFound
		}
		return nil, nil, storeErr(err)
	}

	return &product, &profile, nil
}

// GetHoldings returns the user's holdings, most recently updated first.
func (s *tradingService) GetHoldings(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Holding{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var holdings []models.Holding
	if err := s.db.Preload("Product").Where("user_id = ?", userID).
		Order("updated_at DESC").
		Scopes(pagination.Paginate(page)).Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(holdings, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactions returns the user's ledger entries, newest first,
// optionally restricted to one trade kind.
func (s *tradingService) GetTransactions(userID uint, kind *models.TradeKind, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	filter := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if kind != nil {
		filter = filter.Where("kind = ?", *kind)
	}

	var totalItems int64
	if err := filter.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	query := s.db.Preload("Product").Where("user_id = ?", userID)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	var txs []models.Transaction
	if err := query.
		Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txs, page.Page, page.PageSize, totalItems)
	return &result, nil
}
