package models

import "github.com/minhngdev/foodcourt-backend/pkg/enums"

// Menu groups a store's foods by meal slot.
type Menu struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	StoreID  uint           `gorm:"column:store_id;not null;index" json:"store_id"`
	Name     string         `gorm:"column:name;not null" json:"name"`
	MenuType enums.MenuType `gorm:"column:menu_type;type:text;not null" json:"menu_type"`
	Foods    []Food         `gorm:"many2many:menu_foods" json:"foods,omitempty"`
	Base
}
