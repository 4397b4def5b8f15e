package models

// Follow subscribes a customer to a store's catalog announcements.
type Follow struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CustomerID uint `gorm:"column:customer_id;not null;uniqueIndex:idx_follow_customer_store" json:"customer_id"`
	StoreID    uint `gorm:"column:store_id;not null;uniqueIndex:idx_follow_customer_store" json:"store_id"`
	Base
}
