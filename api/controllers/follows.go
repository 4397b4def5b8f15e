package controllers

import (
	"net/http"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/api/responses"
	"github.com/minhngdev/foodcourt-backend/api/validators"
	"github.com/minhngdev/foodcourt-backend/internal/follows"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

// FollowStore subscribes the caller to a store's announcements.
func FollowStore(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Follow(r.Context(), middleware.AccountIDFromContext(r.Context()), storeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "following"})
	}
}

// UnfollowStore removes the caller's subscription.
func UnfollowStore(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Unfollow(r.Context(), middleware.AccountIDFromContext(r.Context()), storeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "unfollowed"})
	}
}

// FollowedStores lists the stores the caller follows.
func FollowedStores(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := svc.ListFollowed(r.Context(), middleware.AccountIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stores)
	}
}
