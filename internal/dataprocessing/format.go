package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// FormatDecimal renders v with exactly places decimals and a comma separator.
// No thousands grouping is applied: 1234.5 at 2 places is "1234,50".
func FormatDecimal(v float64, places int) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', places, 64), ".", ",", 1)
}

// Round rounds half to even at the given number of decimals
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(places)
	r := math.RoundToEven(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}
