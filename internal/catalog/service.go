package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines catalog management operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateFood(ctx context.Context, input CreateFoodInput) (*models.Food, error)
	UpdateFood(ctx context.Context, input UpdateFoodInput) (*models.Food, error)
	RemoveFood(ctx context.Context, actor Actor, foodID uint) error
	GetFood(ctx context.Context, foodID uint) (*models.Food, error)
	ListFoods(ctx context.Context, input ListFoodsInput) ([]models.Food, error)

	CreateMenu(ctx context.Context, input CreateMenuInput) (*models.Menu, error)
	GetMenu(ctx context.Context, menuID uint) (*models.Menu, error)
	ListMenus(ctx context.Context, storeID uint) ([]models.Menu, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxEmitter
}

// NewService builds the catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner, emitter outboxEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{repo: repo, tx: tx, outbox: emitter}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if input.Actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins manage categories")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	category := &models.Category{Name: input.Name, Description: input.Description}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

// requireStoreActor checks the actor operates the given store.
func requireStoreActor(actor Actor, storeID uint) error {
	if actor.Role == enums.RoleAdmin {
		return nil
	}
	if actor.Role == enums.RoleStore && actor.StoreID != nil && *actor.StoreID == storeID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "catalog belongs to another store")
}

// CreateFood adds a food and queues a follower announcement in the same
// transaction.
func (s *service) CreateFood(ctx context.Context, input CreateFoodInput) (*models.Food, error) {
	if err := requireStoreActor(input.Actor, input.StoreID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food name required")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	mealTime := input.MealTime
	if mealTime == "" {
		mealTime = enums.MealTimeAnytime
	}
	if !mealTime.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid meal time %q", mealTime))
	}

	var created *models.Food
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		store, err := repo.FindStore(ctx, input.StoreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}

		if input.CategoryID != nil {
			exists, err := repo.CategoryExists(ctx, *input.CategoryID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category")
			}
			if !exists {
				return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
		}

		food := &models.Food{
			StoreID:     input.StoreID,
			CategoryID:  input.CategoryID,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			ImageURL:    input.ImageURL,
			MealTime:    mealTime,
			Available:   true,
		}
		if _, err := repo.CreateFood(ctx, food); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create food")
		}

		event := outbox.DomainEvent{
			EventType:   enums.EventFoodPublished,
			AggregateID: food.ID,
			Actor:       actorRef(input.Actor),
			Data: outbox.FoodPublishedData{
				FoodID:    food.ID,
				StoreID:   store.ID,
				StoreName: store.Name,
				FoodName:  food.Name,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit food published event")
		}

		created = food
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func actorRef(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		AccountID: actor.AccountID,
		StoreID:   actor.StoreID,
		Role:      actor.Role,
	}
}

func (s *service) UpdateFood(ctx context.Context, input UpdateFoodInput) (*models.Food, error) {
	food, err := s.repo.FindFood(ctx, input.FoodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}
	if err := requireStoreActor(input.Actor, food.StoreID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "food name required")
		}
		food.Name = *input.Name
	}
	if input.Description != nil {
		food.Description = input.Description
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		food.Price = *input.Price
	}
	if input.ImageURL != nil {
		food.ImageURL = input.ImageURL
	}
	if input.MealTime != nil {
		if !input.MealTime.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid meal time %q", *input.MealTime))
		}
		food.MealTime = *input.MealTime
	}
	if input.CategoryID != nil {
		exists, err := s.repo.CategoryExists(ctx, *input.CategoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		food.CategoryID = input.CategoryID
	}
	if input.Available != nil {
		food.Available = *input.Available
	}

	food.Category = nil
	if err := s.repo.SaveFood(ctx, food); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save food")
	}
	return food, nil
}

// RemoveFood retires a food. Historical order items keep their snapshot.
func (s *service) RemoveFood(ctx context.Context, actor Actor, foodID uint) error {
	food, err := s.repo.FindFood(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}
	if err := requireStoreActor(actor, food.StoreID); err != nil {
		return err
	}

	food.Active = false
	food.Available = false
	food.Category = nil
	if err := s.repo.SaveFood(ctx, food); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire food")
	}
	return nil
}

func (s *service) GetFood(ctx context.Context, foodID uint) (*models.Food, error) {
	food, err := s.repo.FindFood(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}
	return food, nil
}

func (s *service) ListFoods(ctx context.Context, input ListFoodsInput) ([]models.Food, error) {
	foods, err := s.repo.ListFoods(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list foods")
	}
	return foods, nil
}

// CreateMenu groups store foods and queues a follower announcement in the
// same transaction. Every food must belong to the menu's store.
func (s *service) CreateMenu(ctx context.Context, input CreateMenuInput) (*models.Menu, error) {
	if err := requireStoreActor(input.Actor, input.StoreID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu name required")
	}
	if !input.MenuType.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid menu type %q", input.MenuType))
	}
	if len(input.FoodIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu must contain at least one food")
	}

	var created *models.Menu
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		store, err := repo.FindStore(ctx, input.StoreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}

		foods, err := repo.FindFoodsForStore(ctx, input.StoreID, input.FoodIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load foods")
		}
		if len(foods) != len(input.FoodIDs) {
			return pkgerrors.New(pkgerrors.CodeValidation, "menu references foods outside the store")
		}

		menu := &models.Menu{
			StoreID:  input.StoreID,
			Name:     input.Name,
			MenuType: input.MenuType,
		}
		if _, err := repo.CreateMenu(ctx, menu, foods); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu")
		}

		event := outbox.DomainEvent{
			EventType:   enums.EventMenuPublished,
			AggregateID: menu.ID,
			Actor:       actorRef(input.Actor),
			Data: outbox.MenuPublishedData{
				MenuID:    menu.ID,
				StoreID:   store.ID,
				StoreName: store.Name,
				MenuName:  menu.Name,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit menu published event")
		}

		created = menu
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) GetMenu(ctx context.Context, menuID uint) (*models.Menu, error) {
	menu, err := s.repo.FindMenu(ctx, menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu")
	}
	return menu, nil
}

func (s *service) ListMenus(ctx context.Context, storeID uint) ([]models.Menu, error) {
	menus, err := s.repo.ListMenusByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menus")
	}
	return menus, nil
}
