package models

import (
	"time"

	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// TradeKind represents the kind of ledger entry.
type TradeKind string

const (
	TradeKindBuy         TradeKind = "BUY"
	TradeKindSell        TradeKind = "SELL"
	TradeKindSellRevenue TradeKind = "SELL_REVENUE"
)

// Transaction is an immutable ledger record. Rows are append-only — never
// updated or deleted — so there is no Base embed and no UpdatedAt.
//
// OriginalTxID links a SELL_REVENUE entry to the BUY it compensates; the
// unique index guarantees at most one revenue entry per purchase.
type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	Kind         TradeKind       `gorm:"not null" json:"kind"`
	Quantity     uint            `gorm:"not null" json:"quantity"`
	PriceAtTrade decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_trade"`
	FeeAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"fee_amount"`
	OriginalTxID *uint           `gorm:"uniqueIndex" json:"original_tx_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`

	User       User         `gorm:"foreignKey:UserID" json:"-"`
	Product    Product      `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	OriginalTx *Transaction `gorm:"foreignKey:OriginalTxID" json:"-"`
}

// BeforeUpdate blocks accidental mutation of ledger rows.
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrInvalidData
}
