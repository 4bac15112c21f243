package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a listed item with an authoritative unit price and a stock
// count. Price is mutated only by the pricing engine and stock only by the
// trading engine, both under row locks.
//
// Invariants: MinPrice <= Price <= MaxPrice, Stock >= 0.
type Product struct {
	Base
	Title        string          `gorm:"not null" json:"title"`
	CategoryID   uint            `gorm:"not null" json:"category_id"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock        uint            `gorm:"not null;default:0" json:"stock"`
	MinPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"min_price"`
	MaxPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"max_price"`
	NextChangeAt time.Time       `gorm:"not null;index" json:"next_change_at"`
	Description  string          `json:"description"`

	// AuthorID is the user who listed the product. Nullable: seeded or
	// orphaned products have no author and generate no seller revenue.
	AuthorID *uint `json:"author_id,omitempty"`

	// Relationships
	Category Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Author   *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	History  []PriceHistory `gorm:"foreignKey:ProductID" json:"history,omitempty"`
}
