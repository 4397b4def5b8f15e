package controllers

import (
	"net/http"
	"strings"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/api/responses"
	"github.com/minhngdev/foodcourt-backend/api/validators"
	"github.com/minhngdev/foodcourt-backend/internal/stores"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

type storeOnboardRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=128"`
	Description  string  `json:"description,omitempty"`
	Address      string  `json:"address" validate:"required"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	OpeningHours string  `json:"opening_hours,omitempty"`
}

// StoreOnboard registers a store profile for the authenticated store account.
func StoreOnboard(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload storeOnboardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Onboard(r.Context(), stores.OnboardInput{
			AccountID:    middleware.AccountIDFromContext(r.Context()),
			Role:         middleware.RoleFromContext(r.Context()),
			Name:         payload.Name,
			Description:  payload.Description,
			Address:      payload.Address,
			Latitude:     payload.Latitude,
			Longitude:    payload.Longitude,
			OpeningHours: payload.OpeningHours,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

type storeUpdateRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=2,max=128"`
	Description  *string  `json:"description,omitempty"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,min=1"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	OpeningHours *string  `json:"opening_hours,omitempty"`
}

// StoreUpdate adjusts the mutable fields of the caller's store.
func StoreUpdate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload storeUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Update(r.Context(), stores.UpdateInput{
			AccountID:    middleware.AccountIDFromContext(r.Context()),
			StoreID:      storeID,
			Name:         payload.Name,
			Description:  payload.Description,
			Address:      payload.Address,
			Latitude:     payload.Latitude,
			Longitude:    payload.Longitude,
			OpeningHours: payload.OpeningHours,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

// StoreApprove marks a store as approved. Admin only.
func StoreApprove(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Approve(r.Context(), middleware.RoleFromContext(r.Context()), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

// StoreGet returns one store's public profile.
func StoreGet(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Get(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

// StoreList lists approved stores, optionally filtered by a name query.
func StoreList(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), stores.ListInput{
			ApprovedOnly: true,
			Query:        strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:        limit,
			Cursor:       r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
