package server

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/rgehrsitz/mortgo/internal/breakeven"
	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/service"
)

// Calculator is the set of operations the API exposes
type Calculator interface {
	Affordability(ctx context.Context, raw map[string]any, opts service.AffordabilityOptions) (*domain.AffordabilityResult, error)
	Payment(ctx context.Context, raw map[string]any) (*domain.PaymentResult, error)
	Compare(ctx context.Context, req service.CompareRequest) (*compare.ComparisonSet, error)
	RequiredIncome(ctx context.Context, raw map[string]any) (*domain.RequiredIncomeResult, error)
	MaxRate(ctx context.Context, raw map[string]any) (*breakeven.RateSearchResult, error)
	Ready(ctx context.Context) error
}

// VersionInfo is returned by /version
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}

// HandleHealthz provides a basic liveness check
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz reports 503 while the result cache is unreachable
func HandleReadyz(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := calc.Ready(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Message: ErrMsgCacheUnavailable,
			})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleVersion reports the build version
func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionInfo{
			Version:   version,
			GoVersion: runtime.Version(),
		})
	}
}

// HandleAffordability computes the maximum affordable home price. The
// includeAnnualSummary query flag adds per-year schedule totals.
func HandleAffordability(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts service.AffordabilityOptions
		if v := r.URL.Query().Get("includeAnnualSummary"); v != "" {
			include, err := strconv.ParseBool(v)
			if err != nil {
				respondError(w, http.StatusBadRequest, "includeAnnualSummary must be a boolean")
				return
			}
			opts.IncludeAnnualSummary = include
		}

		var raw map[string]any
		if !decodeJSON(w, r, &raw) {
			return
		}

		result, err := calc.Affordability(r.Context(), raw, opts)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandlePayment computes the level payment for a known loan
func HandlePayment(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if !decodeJSON(w, r, &raw) {
			return
		}

		result, err := calc.Payment(r.Context(), raw)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleCompare evaluates named variants against a base input
func HandleCompare(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.CompareRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := calc.Compare(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleRequiredIncome solves for the income that affords a target price
func HandleRequiredIncome(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if !decodeJSON(w, r, &raw) {
			return
		}

		result, err := calc.RequiredIncome(r.Context(), raw)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleMaxRate solves for the highest rate that still affords a target price
func HandleMaxRate(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if !decodeJSON(w, r, &raw) {
			return
		}

		result, err := calc.MaxRate(r.Context(), raw)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
