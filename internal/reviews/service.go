package reviews

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/pagination"
)

// Repository is the persistence surface for store reviews.
type Repository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByStore(ctx context.Context, storeID uint, limit int, cursor string) ([]models.Review, error)
	AverageRating(ctx context.Context, storeID uint) (float64, int64, error)
	HasCompletedOrder(ctx context.Context, customerID, storeID uint) (bool, error)
	FoodBelongsToStore(ctx context.Context, foodID, storeID uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) ListByStore(ctx context.Context, storeID uint, limit int, cursorStr string) ([]models.Review, error) {
	query := r.db.WithContext(ctx).Where("store_id = ? AND active = ?", storeID, true)

	cursor, err := pagination.ParseCursor(cursorStr)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var reviews []models.Review
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&reviews).Error
	return reviews, err
}

func (r *repository) AverageRating(ctx context.Context, storeID uint) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("store_id = ? AND active = ?", storeID, true).
		Scan(&result).Error
	return result.Avg, result.Count, err
}

func (r *repository) HasCompletedOrder(ctx context.Context, customerID, storeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ? AND store_id = ? AND status = ?", customerID, storeID, enums.OrderStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FoodBelongsToStore(ctx context.Context, foodID, storeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Food{}).
		Where("id = ? AND store_id = ?", foodID, storeID).
		Count(&count).Error
	return count > 0, err
}

// CreateInput is a new review for a store, optionally pinned to a food.
type CreateInput struct {
	CustomerID uint
	StoreID    uint
	FoodID     *uint
	Rating     int
	Comment    string
	ImageURL   *string
}

// Summary aggregates a store's review stats.
type Summary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// Service defines review operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Review, error)
	ListByStore(ctx context.Context, storeID uint, limit int, cursor string) ([]models.Review, error)
	Summarize(ctx context.Context, storeID uint) (*Summary, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{repo: repo}, nil
}

// Create records a review. Only customers with a completed order from the
// store may review it.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	purchased, err := s.repo.HasCompletedOrder(ctx, input.CustomerID, input.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}
	if !purchased {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reviews require a completed order from this store")
	}

	if input.FoodID != nil {
		belongs, err := s.repo.FoodBelongsToStore(ctx, *input.FoodID, input.StoreID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check food")
		}
		if !belongs {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "food does not belong to store")
		}
	}

	review := &models.Review{
		CustomerID: input.CustomerID,
		StoreID:    input.StoreID,
		FoodID:     input.FoodID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		ImageURL:   input.ImageURL,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

func (s *service) ListByStore(ctx context.Context, storeID uint, limit int, cursor string) ([]models.Review, error) {
	reviews, err := s.repo.ListByStore(ctx, storeID, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return reviews, nil
}

func (s *service) Summarize(ctx context.Context, storeID uint) (*Summary, error) {
	avg, count, err := s.repo.AverageRating(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate reviews")
	}
	return &Summary{AverageRating: avg, ReviewCount: count}, nil
}
