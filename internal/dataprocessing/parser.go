package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ensaio/pkg/contracts/domain"
)

// ParseDecimal reads a number typed with a comma decimal separator.
// Every comma becomes a period before parsing, so "12,50" is 12.5, "3.5" is
// still accepted and "1,2,3" is rejected.
func ParseDecimal(label, text string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, &ValidationError{Field: label, Value: text, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: label, Value: text, Err: ErrNotFinite}
	}
	return v, nil
}

// ParseFields parses texts given in schema field order.
// The first invalid field is reported.
func ParseFields(schema Schema, texts []string) ([]float64, error) {
	if len(texts) != len(schema.Fields) {
		return nil, fmt.Errorf("%w: %s expects %d values, got %d", ErrFieldCount, schema.Mode, len(schema.Fields), len(texts))
	}
	values := make([]float64, len(texts))
	for i, text := range texts {
		v, err := ParseDecimal(schema.Fields[i], text)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// ParseForm parses texts keyed by field label.
// A label missing from the map is a ValidationError wrapping ErrMissingField.
func ParseForm(schema Schema, form map[string]string) ([]float64, error) {
	values := make([]float64, len(schema.Fields))
	for i, label := range schema.Fields {
		text, ok := form[label]
		if !ok {
			return nil, &ValidationError{Field: label, Err: ErrMissingField}
		}
		v, err := ParseDecimal(label, text)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// ParseInput parses texts in the field order of mode's schema
func ParseInput(mode domain.Mode, texts []string) ([]float64, error) {
	schema, err := SchemaFor(mode)
	if err != nil {
		return nil, err
	}
	return ParseFields(schema, texts)
}
