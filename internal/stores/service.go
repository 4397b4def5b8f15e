package stores

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dbpkg "github.com/minhngdev/foodcourt-backend/pkg/db"
	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
)

// OnboardInput creates the store profile for a STORE account. The store
// stays unapproved, and invisible to customers, until an admin signs off.
type OnboardInput struct {
	AccountID    uint
	Role         enums.Role
	Name         string
	Description  string
	Address      string
	Latitude     float64
	Longitude    float64
	OpeningHours string
}

// UpdateInput mutates the actor's own store profile. Nil fields are kept.
type UpdateInput struct {
	AccountID    uint
	StoreID      uint
	Name         *string
	Description  *string
	Address      *string
	Latitude     *float64
	Longitude    *float64
	OpeningHours *string
}

// Service defines store tenant operations.
type Service interface {
	Onboard(ctx context.Context, input OnboardInput) (*models.Store, error)
	Update(ctx context.Context, input UpdateInput) (*models.Store, error)
	Approve(ctx context.Context, actorRole enums.Role, storeID uint) (*models.Store, error)
	Get(ctx context.Context, storeID uint) (*models.Store, error)
	List(ctx context.Context, input ListInput) ([]models.Store, error)
}

type service struct {
	repo Repository
}

// NewService builds the store service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Onboard(ctx context.Context, input OnboardInput) (*models.Store, error) {
	if input.Role != enums.RoleStore {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only store accounts can onboard a store")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name required")
	}
	if input.Address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store address required")
	}

	store := &models.Store{
		AccountID:    input.AccountID,
		Name:         input.Name,
		Description:  input.Description,
		Address:      input.Address,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		OpeningHours: input.OpeningHours,
		Approved:     false,
	}
	if _, err := s.repo.Create(ctx, store); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already operates a store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return store, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.AccountID != input.AccountID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another account")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name required")
		}
		store.Name = *input.Name
	}
	if input.Description != nil {
		store.Description = *input.Description
	}
	if input.Address != nil {
		if *input.Address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store address required")
		}
		store.Address = *input.Address
	}
	if input.Latitude != nil {
		store.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		store.Longitude = *input.Longitude
	}
	if input.OpeningHours != nil {
		store.OpeningHours = *input.OpeningHours
	}

	if err := s.repo.Save(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save store")
	}
	return store, nil
}

// Approve opens a store for business. Admin only.
func (s *service) Approve(ctx context.Context, actorRole enums.Role, storeID uint) (*models.Store, error) {
	if actorRole != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins approve stores")
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.Approved {
		return store, nil
	}

	store.Approved = true
	if err := s.repo.Save(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve store")
	}
	return store, nil
}

func (s *service) Get(ctx context.Context, storeID uint) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]models.Store, error) {
	stores, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return stores, nil
}
