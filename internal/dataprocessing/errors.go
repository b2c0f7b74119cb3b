package dataprocessing

import (
	"errors"
	"fmt"
	"strings"

	"ensaio/pkg/contracts/domain"
)

var (
	// ErrMissingField is wrapped by a ValidationError when a labelled input is absent
	ErrMissingField = errors.New("field is missing")

	// ErrNotFinite is wrapped by a ValidationError for NaN and infinities
	ErrNotFinite = errors.New("value is not a finite number")

	// ErrFieldCount reports a submission with the wrong number of inputs
	ErrFieldCount = errors.New("wrong number of fields")

	// ErrUnknownMode is returned for anything other than MR and DP
	ErrUnknownMode = errors.New("unknown simulation mode")
)

// ValidationError reports an input that is not a comma-decimal number.
// Nothing is written to the store when one is returned.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Valor inválido para '%s'. Use vírgula para decimais.", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SchemaError reports that the columns a mode needs were not in the read.
// It is raised before any row is converted.
type SchemaError struct {
	Mode      domain.Mode
	Sheet     string
	Expected  []string
	Found     []string
	Duplicate string
}

func (e *SchemaError) Error() string {
	if e.Duplicate != "" {
		return fmt.Sprintf("Coluna '%s' aparece mais de uma vez. Verifique a aba '%s'.", e.Duplicate, e.Sheet)
	}
	return fmt.Sprintf("Colunas %s não foram encontradas. Verifique a aba '%s'.", quoteJoin(e.Expected, " e/ou "), e.Sheet)
}

// ConversionError reports a stored value that could not be cast to a number.
// Row is the spreadsheet row (the header is row 1).
type ConversionError struct {
	Column string
	Row    int
	Value  any
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("valor não numérico na coluna '%s', linha %d: %v", e.Column, e.Row, e.Value)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func quoteJoin(items []string, sep string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + sep + quoted[len(quoted)-1]
}
