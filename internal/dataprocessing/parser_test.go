package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensaio/pkg/contracts/domain"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"comma decimal", "12,50", 12.5},
		{"integer", "7", 7},
		{"default text", "0,00", 0},
		{"surrounding spaces", "  3,25 ", 3.25},
		{"period decimal still accepted", "3.5", 3.5},
		{"negative", "-0,074", -0.074},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal("IP", tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseDecimalRejects(t *testing.T) {
	for _, input := range []string{"abc", "1,2,3", "", "   ", "NaN", "inf", "12,5%"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDecimal("IP", input)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "IP", vErr.Field)
			assert.Equal(t, input, vErr.Value)
			assert.Equal(t, "Valor inválido para 'IP'. Use vírgula para decimais.", err.Error())
		})
	}
}

func TestParseFieldsStopsAtFirstInvalid(t *testing.T) {
	texts := MRSchema.Defaults()
	texts[1] = "x"
	texts[4] = "y"

	values, err := ParseFields(MRSchema, texts)
	assert.Nil(t, values)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "IP", vErr.Field)
}

func TestParseFieldsCount(t *testing.T) {
	_, err := ParseFields(DPSchema, []string{"1", "2"})
	assert.ErrorIs(t, err, ErrFieldCount)
}

func TestParseInput(t *testing.T) {
	texts := []string{"1", "2", "3", "4", "5", "6,5", "7,25"}
	values, err := ParseInput(domain.ModeDP, texts)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6.5, 7.25}, values)

	_, err = ParseInput(domain.Mode("XX"), texts)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseForm(t *testing.T) {
	form := map[string]string{
		"OT (%)":   "10,5",
		"Yd (max)": "1,95",
		"#10 (%)":  "80",
		"#40 (%)":  "60",
		"#200 (%)": "35",
		"σ3":       "0,1",
		"σd":       "0,3",
		"ignored":  "zzz",
	}

	values, err := ParseForm(DPSchema, form)
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 1.95, 80, 60, 35, 0.1, 0.3}, values)

	delete(form, "σd")
	_, err = ParseForm(DPSchema, form)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "σd", vErr.Field)
	assert.ErrorIs(t, err, ErrMissingField)
}
