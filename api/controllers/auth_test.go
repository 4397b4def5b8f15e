package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/internal/accounts"
	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
)

type stubAccountService struct {
	account *models.Account
	session *accounts.Session
	err     error
}

func (s stubAccountService) Register(ctx context.Context, input accounts.RegisterInput) (*models.Account, error) {
	return s.account, s.err
}

func (s stubAccountService) Login(ctx context.Context, input accounts.LoginInput) (*accounts.Session, error) {
	return s.session, s.err
}

func (s stubAccountService) Profile(ctx context.Context, accountID uint) (*models.Account, error) {
	return s.account, s.err
}

func TestAuthRegisterSuccess(t *testing.T) {
	handler := AuthRegister(stubAccountService{account: &models.Account{
		ID:       7,
		Username: "linh",
		Email:    "linh@example.com",
		Role:     enums.RoleCustomer,
	}}, nil)

	body := []byte(`{
		"username": "linh",
		"email": "linh@example.com",
		"password": "Secret123!",
		"role": "CUSTOMER"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Username != "linh" {
		t.Fatalf("expected username linh got %q", envelope.Data.Username)
	}
}

func TestAuthRegisterRejectsBadRole(t *testing.T) {
	handler := AuthRegister(stubAccountService{}, nil)

	body := []byte(`{
		"username": "linh",
		"email": "linh@example.com",
		"password": "Secret123!",
		"role": "ADMIN"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginPropagatesError(t *testing.T) {
	handler := AuthLogin(stubAccountService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	body := []byte(`{"username": "linh", "password": "wrong-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAccountProfileRequiresAuthContext(t *testing.T) {
	handler := AccountProfile(stubAccountService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAccountProfileReturnsAccount(t *testing.T) {
	handler := AccountProfile(stubAccountService{account: &models.Account{ID: 7, Username: "linh"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = req.WithContext(middleware.WithAccount(req.Context(), 7, enums.RoleCustomer, nil))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
