package controllers

import (
	"net/http"

	"github.com/poiu748/cafe-alya/api/responses"
	"github.com/poiu748/cafe-alya/api/validators"
	"github.com/poiu748/cafe-alya/internal/dashboard"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
	"github.com/poiu748/cafe-alya/pkg/logger"
)

const defaultTrendDays = 7

func dashboardServiceMissing(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
}

func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			dashboardServiceMissing(w, r, logg)
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func DashboardOverview(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			dashboardServiceMissing(w, r, logg)
			return
		}
		stats, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// DashboardRevenueTrend serves ?days=N, 7 by default. days=0 yields an empty
// series.
func DashboardRevenueTrend(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			dashboardServiceMissing(w, r, logg)
			return
		}
		days, err := validators.ParseQueryInt(r, "days", defaultTrendDays, 0, dashboard.MaxTrendDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		points, err := svc.RevenueTrend(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}
