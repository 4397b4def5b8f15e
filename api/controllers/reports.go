package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/api/responses"
	"github.com/minhngdev/foodcourt-backend/api/validators"
	"github.com/minhngdev/foodcourt-backend/internal/reporting"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

func reportingActor(r *http.Request) reporting.Actor {
	return reporting.Actor{
		AccountID: middleware.AccountIDFromContext(r.Context()),
		StoreID:   middleware.StoreIDFromContext(r.Context()),
		Role:      middleware.RoleFromContext(r.Context()),
	}
}

// StoreRevenue returns a store's time-bucketed revenue report.
func StoreRevenue(svc reporting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		year, err := validators.ParseQueryInt(r, "year", 0, 2000, time.Now().UTC().Year())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Revenue(r.Context(), reportingActor(r), reporting.RevenueInput{
			StoreID:     storeID,
			Granularity: reporting.Granularity(strings.ToLower(r.URL.Query().Get("period"))),
			Year:        year,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// StoreTopProducts ranks a store's foods by units sold.
func StoreTopProducts(svc reporting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := validators.ParseUintParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		year, err := validators.ParseQueryInt(r, "year", 0, 2000, time.Now().UTC().Year())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.TopProducts(r.Context(), reportingActor(r), reporting.ProductStatsInput{
			StoreID: storeID,
			Year:    year,
			Limit:   limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// PlatformStats returns marketplace-wide numbers. Admin only.
func PlatformStats(svc reporting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseQueryInt(r, "year", 0, 2000, time.Now().UTC().Year())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Platform(r.Context(), reportingActor(r), year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
