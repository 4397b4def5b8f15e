package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// Actor identifies who is performing a catalog operation.
type Actor struct {
	AccountID uint
	StoreID   *uint
	Role      enums.Role
}

// CreateCategoryInput is the admin-side category creation payload.
type CreateCategoryInput struct {
	Actor       Actor
	Name        string
	Description *string
}

// CreateFoodInput carries a new catalog item for a store.
type CreateFoodInput struct {
	Actor       Actor
	StoreID     uint
	CategoryID  *uint
	Name        string
	Description *string
	Price       decimal.Decimal
	ImageURL    *string
	MealTime    enums.MealTime
}

// UpdateFoodInput mutates an existing food. Nil fields are left unchanged.
type UpdateFoodInput struct {
	Actor       Actor
	FoodID      uint
	CategoryID  *uint
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	MealTime    *enums.MealTime
	Available   *bool
}

// CreateMenuInput groups existing store foods under a named menu.
type CreateMenuInput struct {
	Actor    Actor
	StoreID  uint
	Name     string
	MenuType enums.MenuType
	FoodIDs  []uint
}

// ListFoodsInput filters the public food listing.
type ListFoodsInput struct {
	StoreID    *uint
	CategoryID *uint
	MealTime   *enums.MealTime
	Query      string
	Limit      int
	Cursor     string
}
