package models

// Store represents the tenant a STORE account operates.
type Store struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	AccountID    uint    `gorm:"column:account_id;not null;uniqueIndex" json:"account_id"`
	Name         string  `gorm:"column:name;not null" json:"name"`
	Description  string  `gorm:"column:description" json:"description"`
	Address      string  `gorm:"column:address;not null" json:"address"`
	Latitude     float64 `gorm:"column:latitude" json:"latitude"`
	Longitude    float64 `gorm:"column:longitude" json:"longitude"`
	OpeningHours string  `gorm:"column:opening_hours" json:"opening_hours"`
	Approved     bool    `gorm:"column:approved;not null;default:false" json:"approved"`
	Base
}
