package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/auth"
	"github.com/minhngdev/foodcourt-backend/pkg/config"
	dbpkg "github.com/minhngdev/foodcourt-backend/pkg/db"
	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/security"
)

// RegisterInput creates a new identity. Only customer and store roles can
// self-register; admins are provisioned out of band.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    *string
	Role     enums.Role
}

// LoginInput authenticates a username/password pair.
type LoginInput struct {
	Username string
	Password string
}

// Session is the result of a successful authentication.
type Session struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
	StoreID *uint           `json:"store_id,omitempty"`
}

// Service defines identity operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Account, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Profile(ctx context.Context, accountID uint) (*models.Account, error)
}

type service struct {
	repo        Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds the accounts service.
func NewService(repo Repository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	return &service{
		repo:        repo,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}, nil
}

const minPasswordLength = 8

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Account, error) {
	username := strings.TrimSpace(strings.ToLower(input.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid email required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if input.Role != enums.RoleCustomer && input.Role != enums.RoleStore {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be CUSTOMER or STORE")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	account := &models.Account{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         input.Role,
	}
	if _, err := s.repo.Create(ctx, account); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}
	return account, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	username := strings.TrimSpace(strings.ToLower(input.Username))
	if username == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password required")
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	var storeID *uint
	if account.Role == enums.RoleStore {
		store, err := s.repo.FindStoreByAccount(ctx, account.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store context")
		}
		if store != nil {
			storeID = &store.ID
		}
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		AccountID: account.ID,
		Role:      account.Role,
		StoreID:   storeID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if err := s.repo.UpdateLastLogin(ctx, account.ID, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}

	return &Session{Token: token, Account: account, StoreID: storeID}, nil
}

func (s *service) Profile(ctx context.Context, accountID uint) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	return account, nil
}
