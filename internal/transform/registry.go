package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("shift_rate", createShiftRate)
	registry.Register("set_rate", createSetRate)
	registry.Register("set_term", createSetTerm)
	registry.Register("adjust_down_payment", createAdjustDownPayment)
	registry.Register("adjust_debts", createAdjustDebts)
	registry.Register("scale_income", createScaleIncome)
	registry.Register("set_dti", createSetDTICeilings)
	registry.Register("set_hoa", createSetHOA)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in sorted order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "shift_rate:delta=-0.5"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	s, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func optionalDecimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	if _, ok := params[key]; !ok {
		return decimal.Zero, nil
	}
	return decimalParam(transform, params, key)
}

// Factory functions for each transform

func createShiftRate(params map[string]string) (ScenarioTransform, error) {
	delta, err := decimalParam("shift_rate", params, "delta")
	if err != nil {
		return nil, err
	}
	return &ShiftRate{DeltaPct: delta}, nil
}

func createSetRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetRate{RatePct: rate}, nil
}

func createSetTerm(params map[string]string) (ScenarioTransform, error) {
	if yearsStr, ok := params["years"]; ok {
		years, err := strconv.Atoi(yearsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid years value: %w", err)
		}
		return &SetTerm{Months: years * 12}, nil
	}

	monthsStr, ok := params["months"]
	if !ok {
		return nil, fmt.Errorf("set_term requires 'months' or 'years' parameter")
	}
	months, err := strconv.Atoi(monthsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid months value: %w", err)
	}
	return &SetTerm{Months: months}, nil
}

func createAdjustDownPayment(params map[string]string) (ScenarioTransform, error) {
	delta, err := decimalParam("adjust_down_payment", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustDownPayment{Delta: delta}, nil
}

func createAdjustDebts(params map[string]string) (ScenarioTransform, error) {
	delta, err := decimalParam("adjust_debts", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustDebts{DeltaMonthly: delta}, nil
}

func createScaleIncome(params map[string]string) (ScenarioTransform, error) {
	pct, err := decimalParam("scale_income", params, "pct")
	if err != nil {
		return nil, err
	}
	return &ScaleIncome{Pct: pct}, nil
}

func createSetDTICeilings(params map[string]string) (ScenarioTransform, error) {
	front, err := optionalDecimalParam("set_dti", params, "front")
	if err != nil {
		return nil, err
	}
	back, err := optionalDecimalParam("set_dti", params, "back")
	if err != nil {
		return nil, err
	}
	return &SetDTICeilings{FrontEnd: front, BackEnd: back}, nil
}

func createSetHOA(params map[string]string) (ScenarioTransform, error) {
	monthly, err := decimalParam("set_hoa", params, "monthly")
	if err != nil {
		return nil, err
	}
	return &SetHOA{Monthly: monthly}, nil
}
