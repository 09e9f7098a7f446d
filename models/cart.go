package models

import "time"

// CartItem is one line of a user's cart. The composite unique index enforces at
// most one row per (user, product); adding the same product again merges into
// the existing row instead of inserting a second one.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
