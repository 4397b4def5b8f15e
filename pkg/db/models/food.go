package models

import (
	"github.com/shopspring/decimal"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Food is a sellable catalog item owned by a store.
type Food struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StoreID       uint            `gorm:"column:store_id;not null;index" json:"store_id"`
	CategoryID    *uint           `gorm:"column:category_id" json:"category_id,omitempty"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Description   *string         `gorm:"column:description" json:"description,omitempty"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	ImageURL      *string         `gorm:"column:image_url" json:"image_url,omitempty"`
	MealTime      enums.MealTime  `gorm:"column:meal_time;type:text;not null;default:'ANYTIME'" json:"meal_time"`
	Available     bool            `gorm:"column:available;not null;default:true" json:"available"`
	AvailableFrom *string         `gorm:"column:available_from" json:"available_from,omitempty"`
	AvailableTo   *string         `gorm:"column:available_to" json:"available_to,omitempty"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Base
}
