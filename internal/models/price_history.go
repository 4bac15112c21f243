package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory records an actual price change for a product. This is
// immutable time-series data — no Base embed, no UpdatedAt. No-op ticks
// produce no row.
type PriceHistory struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	OldPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"old_price"`
	NewPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"new_price"`
	Reason    string          `gorm:"size:32;not null;default:'tick'" json:"reason"`
	CreatedAt time.Time       `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
