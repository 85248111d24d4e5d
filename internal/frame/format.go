package frame

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FormatExponential renders v in normalized exponential notation with the
// given number of fraction digits and an unpadded signed exponent, e.g.
// 8.85e-11 or 1.69e+6. A value exactly halfway between two results rounds
// away from zero.
func FormatExponential(v float64, digits int) string {
	if digits >= 0 && isHalfway(v, digits) {
		v = math.Nextafter(v, math.Copysign(math.Inf(1), v))
	}
	s := strconv.FormatFloat(v, 'e', digits, 64)
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 > len(s) {
		return s
	}
	mantissa, sign, exp := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + string(sign) + exp
}

// isHalfway reports whether v is exactly a decimal with digits+1 fraction
// digits whose last digit is 5.
func isHalfway(v float64, digits int) bool {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	s := strconv.FormatFloat(v, 'e', digits+1, 64)
	i := strings.IndexByte(s, 'e')
	if i < 1 || s[i-1] != '5' {
		return false
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return false
	}
	exact := new(big.Rat).SetFloat64(v)
	return exact != nil && r.Cmp(exact) == 0
}
