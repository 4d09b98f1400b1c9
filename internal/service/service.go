// Package service runs validated engine operations for the HTTP server,
// adding result caching, metrics and request-scoped logging around them.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rgehrsitz/mortgo/internal/breakeven"
	"github.com/rgehrsitz/mortgo/internal/cache"
	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/logger"
	"github.com/rgehrsitz/mortgo/internal/metrics"
	"github.com/rgehrsitz/mortgo/internal/transform"
	"github.com/rgehrsitz/mortgo/internal/validation"
)

// Operation names used for metrics and cache keys
const (
	OpAffordability  = "affordability"
	OpPayment        = "payment"
	OpCompare        = "compare"
	OpRequiredIncome = "required_income"
	OpMaxRate        = "max_rate"
)

// Service is safe for concurrent use
type Service struct {
	engine    *calculation.Engine
	validator *validation.Validator
	compare   *compare.CompareEngine
	solver    *breakeven.Solver
	templates *transform.TemplateRegistry
	cache     cache.Cache
}

// New builds a service around engine. A nil cache disables caching.
func New(engine *calculation.Engine, c cache.Cache) *Service {
	return &Service{
		engine:    engine,
		validator: validation.Default(),
		compare:   compare.NewCompareEngine(engine),
		solver:    breakeven.NewDefaultSolver(engine),
		templates: transform.CreateBuiltInTemplates(),
		cache:     c,
	}
}

// AffordabilityOptions tweak what an affordability response carries
type AffordabilityOptions struct {
	IncludeAnnualSummary bool
}

// Affordability validates raw input and computes the maximum affordable loan
func (s *Service) Affordability(ctx context.Context, raw map[string]any, opts AffordabilityOptions) (result *domain.AffordabilityResult, err error) {
	defer s.observe(OpAffordability, time.Now(), &err)

	req, err := s.validator.Affordability(raw)
	if err != nil {
		return nil, err
	}

	result = &domain.AffordabilityResult{}
	hit, key := s.lookup(ctx, OpAffordability, req, result)
	if !hit {
		result, err = s.engine.ComputeAffordability(*req)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, result)
	}
	metrics.BindingConstraints.WithLabelValues(string(result.BindingConstraint)).Inc()

	if opts.IncludeAnnualSummary {
		result.AnnualSummary = calculation.SummarizeByYear(result.AmortizationSchedule)
	}
	return result, nil
}

// Payment validates raw input and computes a level payment and schedule
func (s *Service) Payment(ctx context.Context, raw map[string]any) (result *domain.PaymentResult, err error) {
	defer s.observe(OpPayment, time.Now(), &err)

	req, err := s.validator.Payment(raw)
	if err != nil {
		return nil, err
	}

	result = &domain.PaymentResult{}
	hit, key := s.lookup(ctx, OpPayment, req, result)
	if hit {
		return result, nil
	}

	result, err = s.engine.ComputePayment(*req)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, result)
	return result, nil
}

// CompareRequest is a base input plus named variants. Templates name built-in
// what-if scenarios evaluated after the explicit variants.
type CompareRequest struct {
	Base      map[string]any    `json:"base"`
	BaseName  string            `json:"baseName,omitempty"`
	Variants  []compare.Variant `json:"variants"`
	Templates []string          `json:"templates,omitempty"`
}

// Compare evaluates every variant against the base input
func (s *Service) Compare(ctx context.Context, req CompareRequest) (set *compare.ComparisonSet, err error) {
	defer s.observe(OpCompare, time.Now(), &err)

	if len(req.Base) == 0 {
		verr := &domain.ValidationError{}
		verr.Add("base", domain.ReasonMissing, "base input is required")
		return nil, verr
	}

	variants := req.Variants
	if len(req.Templates) > 0 {
		base, err := s.validator.Affordability(req.Base)
		if err != nil {
			return nil, err
		}
		extra, err := s.templates.Variants(*base, req.Templates)
		if err != nil {
			return nil, err
		}
		variants = append(append([]compare.Variant{}, req.Variants...), extra...)
	}

	return s.compare.Compare(ctx, req.Base, compare.CompareOptions{
		BaseScenarioName: req.BaseName,
		Variants:         variants,
	})
}

// RequiredIncome finds the smallest income that affords the target price
func (s *Service) RequiredIncome(ctx context.Context, raw map[string]any) (result *domain.RequiredIncomeResult, err error) {
	defer s.observe(OpRequiredIncome, time.Now(), &err)

	req, err := s.validator.RequiredIncome(raw)
	if err != nil {
		return nil, err
	}
	return s.solver.RequiredIncome(ctx, *req)
}

// MaxRate finds the highest rate at which the profile affords the target price
func (s *Service) MaxRate(ctx context.Context, raw map[string]any) (result *breakeven.RateSearchResult, err error) {
	defer s.observe(OpMaxRate, time.Now(), &err)

	req, target, err := s.validator.MaxRate(raw)
	if err != nil {
		return nil, err
	}
	return s.solver.MaxRate(ctx, breakeven.RateSearchRequest{
		Request:         *req,
		TargetHomePrice: target,
	})
}

// Ready reports whether the backing cache is reachable
func (s *Service) Ready(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Ping(ctx)
}

// lookup decodes a cached result into dst. Cache trouble is logged and
// treated as a miss; the returned key is empty when caching is unavailable.
func (s *Service) lookup(ctx context.Context, op string, req any, dst any) (bool, string) {
	if s.cache == nil {
		return false, ""
	}
	log := logger.FromContext(ctx)

	key, err := cache.Key(op, s.engine.TermBound(), req)
	if err != nil {
		log.Warn("cache key failed", "operation", op, "error", err)
		return false, ""
	}

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		log.Warn("cache lookup failed", "operation", op, "error", err)
		return false, key
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return false, key
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		log.Warn("cache entry unreadable", "operation", op, "error", err)
		return false, key
	}

	metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	log.Debug("cache hit", "operation", op)
	return true, key
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.FromContext(ctx).Warn("cache encode failed", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		logger.FromContext(ctx).Warn("cache store failed", "error", err)
	}
}

func (s *Service) observe(op string, start time.Time, errp *error) {
	metrics.CalculationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.CalculationsTotal.WithLabelValues(op, Outcome(*errp)).Inc()
}

// Outcome classifies an operation error for metrics and status mapping
func Outcome(err error) string {
	var verr *domain.ValidationError
	var derr *domain.DomainError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &verr):
		return metrics.OutcomeValidation
	case errors.As(err, &derr):
		return metrics.OutcomeDomain
	default:
		return metrics.OutcomeError
	}
}
