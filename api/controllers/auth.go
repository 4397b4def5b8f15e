package controllers

import (
	"net/http"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/api/responses"
	"github.com/minhngdev/foodcourt-backend/api/validators"
	"github.com/minhngdev/foodcourt-backend/internal/accounts"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

type registerRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role" validate:"required,oneof=CUSTOMER STORE"`
}

// AuthRegister creates a customer or store account.
func AuthRegister(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Register(r.Context(), accounts.RegisterInput{
			Username: payload.Username,
			Email:    payload.Email,
			Password: payload.Password,
			Phone:    payload.Phone,
			Role:     enums.Role(payload.Role),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, account)
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthLogin exchanges credentials for a JWT session.
func AuthLogin(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), accounts.LoginInput{
			Username: payload.Username,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// AccountProfile returns the authenticated account.
func AccountProfile(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := middleware.AccountIDFromContext(r.Context())
		if accountID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account context missing"))
			return
		}

		account, err := svc.Profile(r.Context(), accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}
