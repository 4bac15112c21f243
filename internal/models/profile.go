package models

import "github.com/shopspring/decimal"

// Profile holds the coin balance for a user. One profile per user.
//
// Balance must never go below zero after a committed operation; the trading
// engine rejects any operation that would overdraw before mutating anything.
type Profile struct {
	Base
	UserID  uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"balance"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
