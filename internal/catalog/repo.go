package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/pagination"
)

// Repository is the persistence surface for the catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryExists(ctx context.Context, id uint) (bool, error)

	CreateFood(ctx context.Context, food *models.Food) (*models.Food, error)
	SaveFood(ctx context.Context, food *models.Food) error
	FindFood(ctx context.Context, id uint) (*models.Food, error)
	ListFoods(ctx context.Context, filter ListFoodsInput) ([]models.Food, error)
	FindFoodsForStore(ctx context.Context, storeID uint, ids []uint) ([]models.Food, error)

	CreateMenu(ctx context.Context, menu *models.Menu, foods []models.Food) (*models.Menu, error)
	FindMenu(ctx context.Context, id uint) (*models.Menu, error)
	ListMenusByStore(ctx context.Context, storeID uint) ([]models.Menu, error)

	FindStore(ctx context.Context, id uint) (*models.Store, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *repository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ? AND active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateFood(ctx context.Context, food *models.Food) (*models.Food, error) {
	if err := r.db.WithContext(ctx).Omit("Category").Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

func (r *repository) SaveFood(ctx context.Context, food *models.Food) error {
	return r.db.WithContext(ctx).Omit("Category").Save(food).Error
}

func (r *repository) FindFood(ctx context.Context, id uint) (*models.Food, error) {
	var food models.Food
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND active = ?", id, true).
		First(&food).Error
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *repository) ListFoods(ctx context.Context, filter ListFoodsInput) ([]models.Food, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("active = ?", true)

	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MealTime != nil {
		query = query.Where("meal_time = ?", *filter.MealTime)
	}
	if filter.Query != "" {
		query = query.Where("name LIKE ?", "%"+filter.Query+"%")
	}

	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var foods []models.Food
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&foods).Error
	return foods, err
}

func (r *repository) FindFoodsForStore(ctx context.Context, storeID uint, ids []uint) ([]models.Food, error) {
	var foods []models.Food
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ? AND active = ?", storeID, ids, true).
		Find(&foods).Error
	return foods, err
}

func (r *repository) CreateMenu(ctx context.Context, menu *models.Menu, foods []models.Food) (*models.Menu, error) {
	if err := r.db.WithContext(ctx).Omit("Foods").Create(menu).Error; err != nil {
		return nil, err
	}
	if len(foods) > 0 {
		if err := r.db.WithContext(ctx).Model(menu).Association("Foods").Append(&foods); err != nil {
			return nil, err
		}
	}
	menu.Foods = foods
	return menu, nil
}

func (r *repository) FindMenu(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).
		Preload("Foods").
		Where("id = ? AND active = ?", id, true).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *repository) ListMenusByStore(ctx context.Context, storeID uint) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.WithContext(ctx).
		Preload("Foods").
		Where("store_id = ? AND active = ?", storeID, true).
		Order("created_at DESC").
		Find(&menus).Error
	return menus, err
}

func (r *repository) FindStore(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}
