package models

// Review is a customer rating for a store, optionally pinned to a food.
type Review struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CustomerID uint    `gorm:"column:customer_id;not null;index" json:"customer_id"`
	StoreID    uint    `gorm:"column:store_id;not null;index" json:"store_id"`
	FoodID     *uint   `gorm:"column:food_id" json:"food_id,omitempty"`
	Rating     int     `gorm:"column:rating;not null" json:"rating"`
	Comment    string  `gorm:"column:comment;not null" json:"comment"`
	ImageURL   *string `gorm:"column:image_url" json:"image_url,omitempty"`
	Base
}
