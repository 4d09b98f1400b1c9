package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/mortgo/internal/breakeven"
	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/service"
)

const referenceBody = `{
	"annualIncome": 120000,
	"monthlyDebts": 500,
	"downPayment": 40000,
	"annualInterestRatePct": 6,
	"loanTermMonths": 360,
	"propertyTaxAnnual": 3600,
	"homeInsuranceAnnual": 1200
}`

func newTestHandler(t *testing.T, opts Options) http.Handler {
	t.Helper()
	srv := NewServer(service.New(calculation.NewEngine(), nil), opts)
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })
	return srv.Handler()
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAffordabilityEndpoint(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := post(t, h, "/api/v1/affordability", referenceBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, ContentTypeJSON, rec.Header().Get(HeaderContentType))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	body := decodeBody(t, rec)
	assert.Equal(t, "400299.87", body["maxLoanAmount"], "Decimals should be exact strings")
	assert.Equal(t, "440299.87", body["maxHomePrice"])
	assert.Equal(t, "FRONT_END", body["bindingConstraint"])
	assert.Len(t, body["amortizationSchedule"], 360)
	assert.NotContains(t, body, "annualSummary")
}

func TestAffordabilityEndpoint_AnnualSummary(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := post(t, h, "/api/v1/affordability?includeAnnualSummary=true", referenceBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["annualSummary"], 30)

	rec = post(t, h, "/api/v1/affordability?includeAnnualSummary=maybe", referenceBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAffordabilityEndpoint_RequestIDPropagated(t *testing.T) {
	h := newTestHandler(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/affordability", strings.NewReader(referenceBody))
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestAffordabilityEndpoint_ValidationError(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := post(t, h, "/api/v1/affordability", `{"annualIncome": "abc", "loanTermMonths": 360.5, "annualInterestRatePct": 6}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgValidationFailed, resp.Error)
	require.Len(t, resp.Fields, 2)
	assert.Equal(t, "annualIncome", resp.Fields[0].Field)
	assert.Equal(t, domain.ReasonNotANumber, resp.Fields[0].Reason)
	assert.Equal(t, "loanTermMonths", resp.Fields[1].Field)
	assert.Equal(t, domain.ReasonOutOfRange, resp.Fields[1].Reason)
}

func TestAffordabilityEndpoint_DomainError(t *testing.T) {
	h := newTestHandler(t, Options{})
	body := strings.Replace(referenceBody, `"loanTermMonths": 360`, `"loanTermMonths": 5000`, 1)

	rec := post(t, h, "/api/v1/affordability", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp DomainErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.CodeTermTooLarge, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "5000")
}

func TestMalformedBodies(t *testing.T) {
	h := newTestHandler(t, Options{})

	for _, body := range []string{``, `{`, `[1,2]`, `"text"`} {
		rec := post(t, h, "/api/v1/affordability", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, ErrMsgInvalidJSON, decodeBody(t, rec)["error"])
	}

	big := `{"annualIncome": "` + strings.Repeat("1", MaxBodyBytes) + `"}`
	rec := post(t, h, "/api/v1/affordability", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPaymentEndpoint(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := post(t, h, "/api/v1/payment", `{"loanAmount": "200000", "annualInterestRatePct": 6, "loanTermMonths": 360}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1199.1", decodeBody(t, rec)["monthlyPayment"])

	rec = post(t, h, "/api/v1/payment", `{"loanAmount": -1, "annualInterestRatePct": 6, "loanTermMonths": 360}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareEndpoint(t *testing.T) {
	h := newTestHandler(t, Options{})

	body := fmt.Sprintf(`{"base": %s, "variants": [{"name": "zero", "overrides": {"annualInterestRatePct": 0}}]}`, referenceBody)
	rec := post(t, h, "/api/v1/affordability/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var set compare.ComparisonSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, compare.DefaultBaseScenarioName, set.BaseScenarioName)
	require.Len(t, set.AlternativeResults, 1)
	assert.Equal(t, "463700.13", set.AlternativeResults[0].PriceDiffFromBase.StringFixed(2))

	dup := fmt.Sprintf(`{"base": %s, "variants": [{"name": "a"}, {"name": "a"}]}`, referenceBody)
	rec = post(t, h, "/api/v1/affordability/compare", dup)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "duplicate")

	rec = post(t, h, "/api/v1/affordability/compare", `{"variants": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrMsgValidationFailed, decodeBody(t, rec)["error"])

	withTemplates := fmt.Sprintf(`{"base": %s, "templates": ["fha_ceilings"]}`, referenceBody)
	rec = post(t, h, "/api/v1/affordability/compare", withTemplates)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.AlternativeResults, 1)
	assert.Equal(t, "fha_ceilings", set.AlternativeResults[0].ScenarioName)
	assert.True(t, set.AlternativeResults[0].PriceDiffFromBase.IsPositive())

	unknown := fmt.Sprintf(`{"base": %s, "templates": ["nope"]}`, referenceBody)
	rec = post(t, h, "/api/v1/affordability/compare", unknown)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unknown template")
}

func TestRequiredIncomeEndpoint(t *testing.T) {
	h := newTestHandler(t, Options{})
	body := strings.Replace(referenceBody, `"annualIncome": 120000`, `"targetHomePrice": "440299.87"`, 1)

	rec := post(t, h, "/api/v1/affordability/required-income", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "119999.79", decodeBody(t, rec)["requiredAnnualIncome"])

	body = strings.Replace(referenceBody, `"annualIncome": 120000`, `"targetHomePrice": -5`, 1)
	rec = post(t, h, "/api/v1/affordability/required-income", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp DomainErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.CodeInvalidTarget, resp.Error.Code)
}

func TestMaxRateEndpoint(t *testing.T) {
	h := newTestHandler(t, Options{})
	body := strings.Replace(referenceBody, `"annualInterestRatePct": 6`, `"targetHomePrice": "440299.87"`, 1)

	rec := post(t, h, "/api/v1/affordability/max-rate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "5.999450683594", decodeBody(t, rec)["maxRatePct"])

	body = strings.Replace(referenceBody, `"annualInterestRatePct": 6`, `"targetHomePrice": 5000000`, 1)
	rec = post(t, h, "/api/v1/affordability/max-rate", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp DomainErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.CodeUnaffordable, resp.Error.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	h := newTestHandler(t, Options{Version: "1.2.3"})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = get("/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get("/version")
	assert.Equal(t, "1.2.3", decodeBody(t, rec)["version"])

	post(t, h, "/api/v1/affordability", referenceBody)
	rec = get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mortgo_http_requests_total")

	rec = get("/api/v1/affordability")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRateLimitedEndpoints(t *testing.T) {
	h := newTestHandler(t, Options{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		rec := post(t, h, "/api/v1/affordability", referenceBody)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := post(t, h, "/api/v1/affordability", referenceBody)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ErrMsgTooManyRequests, decodeBody(t, rec)["error"])

	// health checks are not limited
	hc := httptest.NewRecorder()
	h.ServeHTTP(hc, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, hc.Code)
}

// stubCalculator fails every operation with err
type stubCalculator struct {
	err error
}

func (s stubCalculator) Affordability(context.Context, map[string]any, service.AffordabilityOptions) (*domain.AffordabilityResult, error) {
	return nil, s.err
}

func (s stubCalculator) Payment(context.Context, map[string]any) (*domain.PaymentResult, error) {
	return nil, s.err
}

func (s stubCalculator) Compare(context.Context, service.CompareRequest) (*compare.ComparisonSet, error) {
	return nil, s.err
}

func (s stubCalculator) RequiredIncome(context.Context, map[string]any) (*domain.RequiredIncomeResult, error) {
	return nil, s.err
}

func (s stubCalculator) MaxRate(context.Context, map[string]any) (*breakeven.RateSearchResult, error) {
	return nil, s.err
}

func (s stubCalculator) Ready(context.Context) error {
	return s.err
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
		{"timeout", fmt.Errorf("compare: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"wrapped domain", &breakeven.BreakEvenError{Operation: "op", Message: "m", Cause: domain.ErrInvalidTerm}, http.StatusUnprocessableEntity},
		{"variant", fmt.Errorf("%w: bad", compare.ErrInvalidVariant), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(stubCalculator{err: tt.err}, Options{})
			rec := post(t, srv.Handler(), "/api/v1/payment", `{}`)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, ErrMsgInternal, decodeBody(t, rec)["error"], "Internal details should not leak")
			}
		})
	}
}

func TestReadyzUnavailable(t *testing.T) {
	srv := NewServer(stubCalculator{err: errors.New("redis down")}, Options{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decodeBody(t, rec)["status"])
}

func TestNewServerAddr(t *testing.T) {
	srv := NewServer(stubCalculator{}, Options{Port: 9090})
	assert.Equal(t, ":9090", srv.Addr())
}
