package models

import "time"

// User represents a registered marketplace user.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	DisplayName string     `json:"display_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relationships
	Profile      *Profile      `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Holdings     []Holding     `gorm:"foreignKey:UserID" json:"holdings,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
