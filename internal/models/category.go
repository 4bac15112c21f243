package models

// Category groups products in the catalog. A category cannot be deleted
// while products still reference it.
type Category struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"products,omitempty"`
}
