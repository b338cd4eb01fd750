// Package currency renders sol amounts the way they are printed on receipts.
package currency

import (
	"fmt"
	"strings"

	"hilanderia-pos/pkg/apperr"

	"github.com/shopspring/decimal"
)

var (
	units   = []string{"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE"}
	teens   = []string{"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE", "DIECISEIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE"}
	tens    = []string{"", "", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA"}
	hundred = []string{"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS"}
)

var limit = decimal.NewFromInt(1_000_000_000)

// ToWords converts a non-negative amount with at most two decimals into
// its receipt form, e.g. 21.50 -> "VEINTIUNO SOLES CON 50/100".
func ToWords(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() || !amount.Equal(amount.Truncate(2)) || amount.GreaterThanOrEqual(limit) {
		return "", apperr.ErrInvalidAmount.With(amount.String())
	}

	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart()

	words := integerWords(whole)
	unit := "SOLES"
	if whole == 1 {
		words = "UN"
		unit = "SOL"
	}

	out := words + " " + unit
	if cents > 0 {
		out += fmt.Sprintf(" CON %02d/100", cents)
	}
	return out, nil
}

// Format renders an amount as "S/ 13.50".
func Format(amount decimal.Decimal) string {
	return "S/ " + amount.StringFixed(2)
}

// Parse reads a user supplied amount, rejecting anything ToWords would reject.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, apperr.ErrInvalidAmount.Wrap(err)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(2)) {
		return decimal.Zero, apperr.ErrInvalidAmount.With(s)
	}
	return d, nil
}

func integerWords(n int64) string {
	if n == 0 {
		return "CERO"
	}

	millions := int(n / 1_000_000)
	thousands := int(n / 1000 % 1000)
	rest := int(n % 1000)

	var parts []string
	switch {
	case millions == 1:
		parts = append(parts, "UN MILLON")
	case millions > 1:
		parts = append(parts, apocope(hundreds(millions))+" MILLONES")
	}
	switch {
	case thousands == 1:
		parts = append(parts, "MIL")
	case thousands > 1:
		parts = append(parts, apocope(hundreds(thousands))+" MIL")
	}
	if rest > 0 {
		parts = append(parts, hundreds(rest))
	}
	return strings.Join(parts, " ")
}

// hundreds formats 1..999; 0 yields "".
func hundreds(n int) string {
	var parts []string

	if c := n / 100; c > 0 {
		if n == 100 {
			parts = append(parts, "CIEN")
		} else {
			parts = append(parts, hundred[c])
		}
	}
	if r := n % 100; r > 0 {
		parts = append(parts, tensWords(r))
	}
	return strings.Join(parts, " ")
}

// tensWords formats 1..99. The twenties are written as one word with no
// connector (VEINTIDOS), every other decade joins the unit with " Y ".
func tensWords(n int) string {
	d, u := n/10, n%10
	switch {
	case n < 10:
		return units[n]
	case n < 20:
		return teens[u]
	case n == 20:
		return tens[2]
	case d == 2:
		return "VEINTI" + units[u]
	case u == 0:
		return tens[d]
	default:
		return tens[d] + " Y " + units[u]
	}
}

// apocope shortens a trailing UNO before MIL/MILLONES.
func apocope(s string) string {
	if strings.HasSuffix(s, "UNO") {
		return strings.TrimSuffix(s, "O")
	}
	return s
}
