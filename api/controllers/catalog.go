package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/api/responses"
	"github.com/minhngdev/foodcourt-backend/api/validators"
	"github.com/minhngdev/foodcourt-backend/internal/catalog"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

func catalogActor(r *http.Request) catalog.Actor {
	return catalog.Actor{
		AccountID: middleware.AccountIDFromContext(r.Context()),
		StoreID:   middleware.StoreIDFromContext(r.Context()),
		Role:      middleware.RoleFromContext(r.Context()),
	}
}

type categoryCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=64"`
	Description *string `json:"description,omitempty"`
}

// CategoryCreate adds a catalog category. Admin only.
func CategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload categoryCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), catalog.CreateCategoryInput{
			Actor:       catalogActor(r),
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// CategoryList returns every active category.
func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

type foodCreateRequest struct {
	StoreID     uint            `json:"store_id" validate:"required"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Name        string          `json:"name" validate:"required,min=2,max=128"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	ImageURL    *string         `json:"image_url,omitempty"`
	MealTime    string          `json:"meal_time,omitempty" validate:"omitempty,oneof=BREAKFAST LUNCH DINNER ANYTIME"`
}

// FoodCreate adds a dish to the caller's store catalog.
func FoodCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload foodCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mealTime := enums.MealTimeAnytime
		if payload.MealTime != "" {
			mealTime = enums.MealTime(payload.MealTime)
		}

		food, err := svc.CreateFood(r.Context(), catalog.CreateFoodInput{
			Actor:       catalogActor(r),
			StoreID:     payload.StoreID,
			CategoryID:  payload.CategoryID,
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			ImageURL:    payload.ImageURL,
			MealTime:    mealTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, food)
	}
}

type foodUpdateRequest struct {
	CategoryID  *uint            `json:"category_id,omitempty"`
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=128"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	MealTime    *string          `json:"meal_time,omitempty" validate:"omitempty,oneof=BREAKFAST LUNCH DINNER ANYTIME"`
	Available   *bool            `json:"available,omitempty"`
}

// FoodUpdate mutates a dish. Nil fields are left unchanged.
func FoodUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		foodID, err := validators.ParseUintParam(r, "foodID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload foodUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var mealTime *enums.MealTime
		if payload.MealTime != nil {
			mt := enums.MealTime(*payload.MealTime)
			mealTime = &mt
		}

		food, err := svc.UpdateFood(r.Context(), catalog.UpdateFoodInput{
			Actor:       catalogActor(r),
			FoodID:      foodID,
			CategoryID:  payload.CategoryID,
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			ImageURL:    payload.ImageURL,
			MealTime:    mealTime,
			Available:   payload.Available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, food)
	}
}

// FoodRemove retires a dish from the listing.
func FoodRemove(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		foodID, err := validators.ParseUintParam(r, "foodID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveFood(r.Context(), catalogActor(r), foodID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// FoodGet returns one dish.
func FoodGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		foodID, err := validators.ParseUintParam(r, "foodID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		food, err := svc.GetFood(r.Context(), foodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, food)
	}
}

// FoodList lists available dishes with optional filters.
func FoodList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := validators.ParseQueryUint(r, "store_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUint(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var mealTime *enums.MealTime
		if raw := strings.TrimSpace(r.URL.Query().Get("meal_time")); raw != "" {
			mt := enums.MealTime(strings.ToUpper(raw))
			mealTime = &mt
		}

		foods, err := svc.ListFoods(r.Context(), catalog.ListFoodsInput{
			StoreID:    storeID,
			CategoryID: categoryID,
			MealTime:   mealTime,
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:      limit,
			Cursor:     r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, foods)
	}
}

type menuCreateRequest struct {
	StoreID  uint   `json:"store_id" validate:"required"`
	Name     string `json:"name" validate:"required,min=2,max=128"`
	MenuType string `json:"menu_type" validate:"required,oneof=BREAKFAST LUNCH DINNER"`
	FoodIDs  []uint `json:"food_ids" validate:"required,min=1"`
}

// MenuCreate groups existing store foods under a named menu.
func MenuCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload menuCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu, err := svc.CreateMenu(r.Context(), catalog.CreateMenuInput{
			Actor:    catalogActor(r),
			StoreID:  payload.StoreID,
			Name:     payload.Name,
			MenuType: enums.MenuType(payload.MenuType),
			FoodIDs:  payload.FoodIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, menu)
	}
}

// MenuGet returns one menu with its foods.
func MenuGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menuID, err := validators.ParseUintParam(r, "menuID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu, err := svc.GetMenu(r.Context(), menuID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, menu)
	}
}

// MenuListByStore lists a store's menus.
func MenuListByStore(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menus, err := svc.ListMenus(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, menus)
	}
}
