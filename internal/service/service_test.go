package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/mortgo/internal/cache"
	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/metrics"
	"github.com/rgehrsitz/mortgo/internal/validation"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) Close() error { return nil }

func referenceInput() map[string]any {
	return map[string]any{
		"annualIncome":          json.Number("120000"),
		"monthlyDebts":          json.Number("500"),
		"downPayment":           json.Number("40000"),
		"annualInterestRatePct": json.Number("6"),
		"loanTermMonths":        json.Number("360"),
		"propertyTaxAnnual":     json.Number("3600"),
		"homeInsuranceAnnual":   json.Number("1200"),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAffordability_NoCache(t *testing.T) {
	svc := New(calculation.NewEngine(), nil)

	result, err := svc.Affordability(context.Background(), referenceInput(), AffordabilityOptions{})
	require.NoError(t, err)

	assert.True(t, result.MaxHomePrice.Equal(d("440299.87")), "price %s", result.MaxHomePrice)
	assert.Equal(t, domain.FrontEnd, result.BindingConstraint)
	assert.Nil(t, result.AnnualSummary)
	assert.NoError(t, svc.Ready(context.Background()))
}

func TestAffordability_AnnualSummary(t *testing.T) {
	svc := New(calculation.NewEngine(), nil)

	result, err := svc.Affordability(context.Background(), referenceInput(), AffordabilityOptions{IncludeAnnualSummary: true})
	require.NoError(t, err)
	require.Len(t, result.AnnualSummary, 30)
	assert.True(t, result.AnnualSummary[29].EndingBalance.IsZero())
}

func TestAffordability_ValidationError(t *testing.T) {
	svc := New(calculation.NewEngine(), nil)
	raw := referenceInput()
	raw["annualIncome"] = "lots"

	_, err := svc.Affordability(context.Background(), raw, AffordabilityOptions{})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, metrics.OutcomeValidation, Outcome(err))
}

func TestAffordability_DomainError(t *testing.T) {
	svc := New(calculation.NewEngineWithMaxTerm(360), nil)
	raw := referenceInput()
	raw["loanTermMonths"] = 480

	_, err := svc.Affordability(context.Background(), raw, AffordabilityOptions{})

	assert.ErrorIs(t, err, domain.ErrTermTooLarge)
	assert.Equal(t, metrics.OutcomeDomain, Outcome(err))
}

func TestAffordability_CacheHitServesStoredResult(t *testing.T) {
	ctx := context.Background()
	lru := cache.NewLRUCache(8, time.Minute)
	svc := New(calculation.NewEngine(), lru)

	req, err := validation.Validate(referenceInput())
	require.NoError(t, err)
	key, err := cache.Key(OpAffordability, calculation.DefaultMaxTermMonths, req)
	require.NoError(t, err)

	stored, err := json.Marshal(&domain.AffordabilityResult{
		MaxHomePrice:      d("1"),
		BindingConstraint: domain.BackEnd,
	})
	require.NoError(t, err)
	require.NoError(t, lru.Set(ctx, key, stored))

	result, err := svc.Affordability(ctx, referenceInput(), AffordabilityOptions{})
	require.NoError(t, err)
	assert.True(t, result.MaxHomePrice.Equal(d("1")), "Should serve the cached entry")
	assert.Equal(t, domain.BackEnd, result.BindingConstraint)
}

func TestAffordability_CacheMissStores(t *testing.T) {
	ctx := context.Background()
	lru := cache.NewLRUCache(8, time.Minute)
	svc := New(calculation.NewEngine(), lru)

	first, err := svc.Affordability(ctx, referenceInput(), AffordabilityOptions{IncludeAnnualSummary: true})
	require.NoError(t, err)
	assert.Equal(t, 1, lru.Len())

	// aliases and numeric forms of the same values share an entry
	raw := map[string]any{
		"annual_income":         "120000.00",
		"monthly_debts":         500,
		"down_payment":          40000,
		"annualInterestRatePct": 6.0,
		"loan_term_months":      360,
		"property_tax_annual":   3600,
		"home_insurance_annual": 1200,
	}
	second, err := svc.Affordability(ctx, raw, AffordabilityOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, lru.Len())
	assert.True(t, second.MaxLoanAmount.Equal(first.MaxLoanAmount))
	assert.Len(t, second.AmortizationSchedule, 360)
	assert.Nil(t, second.AnnualSummary, "Cached entry should not carry the summary")
}

func TestAffordability_CacheFailuresIgnored(t *testing.T) {
	mc := &mockCache{}
	mc.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("connection refused"))
	mc.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := New(calculation.NewEngine(), mc)
	result, err := svc.Affordability(context.Background(), referenceInput(), AffordabilityOptions{})

	require.NoError(t, err)
	assert.True(t, result.MaxLoanAmount.Equal(d("400299.87")))
	mc.AssertExpectations(t)
}

func TestAffordability_CorruptEntryRecomputed(t *testing.T) {
	mc := &mockCache{}
	mc.On("Get", mock.Anything, mock.Anything).Return([]byte("not json"), true, nil)
	mc.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := New(calculation.NewEngine(), mc)
	result, err := svc.Affordability(context.Background(), referenceInput(), AffordabilityOptions{})

	require.NoError(t, err)
	assert.True(t, result.MaxHomePrice.Equal(d("440299.87")))
	mc.AssertCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestPayment(t *testing.T) {
	lru := cache.NewLRUCache(8, time.Minute)
	svc := New(calculation.NewEngine(), lru)
	raw := map[string]any{"loanAmount": "200000", "annualInterestRatePct": "6", "loanTermMonths": 360}

	for i := 0; i < 2; i++ {
		result, err := svc.Payment(context.Background(), raw)
		require.NoError(t, err)
		assert.True(t, result.MonthlyPayment.Equal(d("1199.10")), "payment %s", result.MonthlyPayment)
		assert.Len(t, result.AmortizationSchedule, 360)
	}
	assert.Equal(t, 1, lru.Len())

	_, err := svc.Payment(context.Background(), map[string]any{"loanAmount": "200000"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCompare(t *testing.T) {
	svc := New(calculation.NewEngine(), nil)

	set, err := svc.Compare(context.Background(), CompareRequest{
		Base:     referenceInput(),
		BaseName: "today",
		Variants: []compare.Variant{{Name: "no-interest", Overrides: map[string]any{"annualInterestRatePct": 0}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "today", set.BaseScenarioName)
	require.Len(t, set.AlternativeResults, 1)
	assert.True(t, set.AlternativeResults[0].PriceDiffFromBase.Equal(d("463700.13")))

	_, err = svc.Compare(context.Background(), CompareRequest{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "base", verr.Fields[0].Field)
}

func TestCompareTemplates(t *testing.T) {
	svc := New(calculation.NewEngine(), nil)

	set, err := svc.Compare(context.Background(), CompareRequest{
		Base:      referenceInput(),
		Variants:  []compare.Variant{{Name: "no-interest", Overrides: map[string]any{"annualInterestRatePct": 0}}},
		Templates: []string{"15yr", "RATE_UP_1"},
	})
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 3)
	assert.Equal(t, "no-interest", set.AlternativeResults[0].ScenarioName)
	assert.Equal(t, "15yr", set.AlternativeResults[1].ScenarioName)
	assert.Equal(t, 180, set.AlternativeResults[1].LoanTermMonths)
	assert.True(t, set.AlternativeResults[2].AnnualInterestRatePct.Equal(d("7")))

	_, err = svc.Compare(context.Background(), CompareRequest{Base: referenceInput(), Templates: []string{"bogus"}})
	assert.ErrorIs(t, err, compare.ErrInvalidVariant)

	bad := referenceInput()
	bad["annualIncome"] = "lots"
	_, err = svc.Compare(context.Background(), CompareRequest{Base: bad, Templates: []string{"15yr"}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "annualIncome", verr.Fields[0].Field)
}

func TestRequiredIncome(t *testing.T) {
	svc := New(calculation.NewEngine(), nil)
	raw := referenceInput()
	delete(raw, "annualIncome")
	raw["targetHomePrice"] = "440299.87"

	result, err := svc.RequiredIncome(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, result.RequiredAnnualIncome.Equal(d("119999.79")), "income %s", result.RequiredAnnualIncome)

	raw["targetHomePrice"] = 0
	_, err = svc.RequiredIncome(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)
	assert.Equal(t, metrics.OutcomeDomain, Outcome(err))
}

func TestMaxRate(t *testing.T) {
	svc := New(calculation.NewEngine(), nil)
	raw := referenceInput()
	delete(raw, "annualInterestRatePct")
	raw["targetHomePrice"] = "440299.87"

	result, err := svc.MaxRate(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, result.MaxRatePct.Equal(d("5.999450683594")), "rate %s", result.MaxRatePct)

	raw["targetHomePrice"] = "5000000"
	_, err = svc.MaxRate(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrUnaffordable)
}

func TestReady(t *testing.T) {
	mc := &mockCache{}
	mc.On("Ping", mock.Anything).Return(errors.New("down")).Once()
	mc.On("Ping", mock.Anything).Return(nil).Once()

	svc := New(calculation.NewEngine(), mc)
	assert.Error(t, svc.Ready(context.Background()))
	assert.NoError(t, svc.Ready(context.Background()))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeSuccess, Outcome(nil))
	assert.Equal(t, metrics.OutcomeError, Outcome(errors.New("boom")))
	assert.Equal(t, metrics.OutcomeDomain, Outcome(errors.Join(errors.New("ctx"), &domain.DomainError{Code: domain.CodeInvalidTerm})))
}
