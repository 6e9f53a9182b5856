package models

import "time"

// Item is a single stock entry in a user's inventory. Price is in whole yen.
type Item struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" validate:"required,max=200"`
	Price     int       `json:"price" validate:"gte=0"`
	Shop      string    `json:"shop" validate:"max=100"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
	Memo      string    `json:"memo" validate:"max=500"`
	CreatedAt time.Time `json:"created_at"`
}
