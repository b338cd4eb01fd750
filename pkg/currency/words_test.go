package currency

import (
	"errors"
	"strings"
	"testing"

	"hilanderia-pos/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "CERO SOLES"},
		{"0.75", "CERO SOLES CON 75/100"},
		{"1", "UN SOL"},
		{"1.50", "UN SOL CON 50/100"},
		{"2", "DOS SOLES"},
		{"15", "QUINCE SOLES"},
		{"20", "VEINTE SOLES"},
		{"21.50", "VEINTIUNO SOLES CON 50/100"},
		{"27", "VEINTISIETE SOLES"},
		{"35", "TREINTA Y CINCO SOLES"},
		{"40", "CUARENTA SOLES"},
		{"100", "CIEN SOLES"},
		{"101", "CIENTO UNO SOLES"},
		{"13.05", "TRECE SOLES CON 05/100"},
		{"999", "NOVECIENTOS NOVENTA Y NUEVE SOLES"},
		{"1000", "MIL SOLES"},
		{"2500", "DOS MIL QUINIENTOS SOLES"},
		{"21000", "VEINTIUN MIL SOLES"},
		{"101000", "CIENTO UN MIL SOLES"},
		{"1000000", "UN MILLON SOLES"},
		{"3200000", "TRES MILLONES DOSCIENTOS MIL SOLES"},
	}

	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			got, err := ToWords(decimal.RequireFromString(tc.amount))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToWordsSingularPlural(t *testing.T) {
	one, err := ToWords(decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(one, "UN SOL"))

	two, err := ToWords(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(two, "SOLES"))
}

func TestToWordsHundredIsCien(t *testing.T) {
	got, err := ToWords(decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "CIEN "))
	assert.NotContains(t, got, "CIENTO")
}

func TestToWordsRejectsInvalidAmounts(t *testing.T) {
	for _, s := range []string{"-1", "1.005", "1000000000"} {
		_, err := ToWords(decimal.RequireFromString(s))
		assert.True(t, errors.Is(err, apperr.ErrInvalidAmount), s)
	}
}

func TestParseAndFormat(t *testing.T) {
	d, err := Parse(" 13.5 ")
	require.NoError(t, err)
	assert.Equal(t, "S/ 13.50", Format(d))

	_, err = Parse("abc")
	assert.True(t, errors.Is(err, apperr.ErrInvalidAmount))

	_, err = Parse("2.999")
	assert.True(t, errors.Is(err, apperr.ErrInvalidAmount))
}
