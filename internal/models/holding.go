package models

// Holding is a user's owned quantity of a product. The (user, product) pair
// is unique; rows are created lazily on first purchase and kept around even
// at quantity zero.
type Holding struct {
	Base
	UserID    uint `gorm:"not null;uniqueIndex:idx_holdings_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_holdings_user_product" json:"product_id"`
	Quantity  uint `gorm:"not null;default:0" json:"quantity"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
