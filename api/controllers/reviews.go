package controllers

import (
	"net/http"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/api/responses"
	"github.com/minhngdev/foodcourt-backend/api/validators"
	"github.com/minhngdev/foodcourt-backend/internal/reviews"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

type reviewCreateRequest struct {
	StoreID  uint    `json:"store_id" validate:"required"`
	FoodID   *uint   `json:"food_id,omitempty"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Comment  string  `json:"comment,omitempty" validate:"omitempty,max=2000"`
	ImageURL *string `json:"image_url,omitempty"`
}

// ReviewCreate records a review from a customer with a completed order.
func ReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reviewCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Create(r.Context(), reviews.CreateInput{
			CustomerID: middleware.AccountIDFromContext(r.Context()),
			StoreID:    payload.StoreID,
			FoodID:     payload.FoodID,
			Rating:     payload.Rating,
			Comment:    payload.Comment,
			ImageURL:   payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

// ReviewList lists a store's reviews.
func ReviewList(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByStore(r.Context(), storeID, limit, r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ReviewSummary returns the store's average rating and review count.
func ReviewSummary(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summarize(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
