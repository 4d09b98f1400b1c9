package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/validation"
)

// InputFile is the on-disk shape of a CLI input. A file either nests the
// borrower fields under request: or lists them at the top level.
type InputFile struct {
	Request          map[string]any    `yaml:"request"`
	Compare          []compare.Variant `yaml:"compare,omitempty"`
	TargetHomePrices []any             `yaml:"target_home_prices,omitempty"`
}

// InputParser handles parsing of input files
type InputParser struct {
	Validator *validation.Validator
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{Validator: validation.Default()}
}

// LoadFromFile reads a YAML or JSON input file. Field values are left raw so
// the validator can report every bad field at once.
func (ip *InputParser) LoadFromFile(filename string) (*InputFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	return ip.Parse(data)
}

// Parse decodes input file contents
func (ip *InputParser) Parse(data []byte) (*InputFile, error) {
	var top map[string]any
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(top) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	var input InputFile
	if _, nested := top["request"]; nested {
		if err := yaml.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	} else {
		input.Request = top
	}

	if err := ip.ValidateInput(&input); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	input.Request = validation.Canonical(input.Request)

	return &input, nil
}

// ValidateInput checks the file structure. Field values are checked later by
// the validator.
func (ip *InputParser) ValidateInput(input *InputFile) error {
	if len(input.Request) == 0 {
		return fmt.Errorf("request is required")
	}

	seen := map[string]bool{}
	for i, v := range input.Compare {
		if v.Name == "" {
			return fmt.Errorf("compare variant %d has no name", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("compare variant %q is listed twice", v.Name)
		}
		seen[v.Name] = true
	}

	return nil
}

// LoadRequest loads a file and validates its request as an affordability input
func (ip *InputParser) LoadRequest(filename string) (*domain.AffordabilityRequest, *InputFile, error) {
	input, err := ip.LoadFromFile(filename)
	if err != nil {
		return nil, nil, err
	}

	req, err := ip.validator().Affordability(input.Request)
	if err != nil {
		return nil, input, err
	}

	return req, input, nil
}

// RequiredIncomeRequests pairs the file's borrower profile with each target
// price. Explicit targets take precedence over those listed in the file.
func (ip *InputParser) RequiredIncomeRequests(input *InputFile, targets []any) ([]domain.RequiredIncomeRequest, error) {
	if len(targets) == 0 {
		targets = input.TargetHomePrices
	}
	if len(targets) == 0 {
		if t, ok := input.Request["targetHomePrice"]; ok {
			targets = []any{t}
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no target home price given")
	}

	requests := make([]domain.RequiredIncomeRequest, 0, len(targets))
	for _, target := range targets {
		raw := make(map[string]any, len(input.Request)+1)
		for k, v := range input.Request {
			raw[k] = v
		}
		raw["targetHomePrice"] = target

		req, err := ip.validator().RequiredIncome(raw)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}

	return requests, nil
}

func (ip *InputParser) validator() *validation.Validator {
	if ip.Validator == nil {
		return validation.Default()
	}
	return ip.Validator
}
