package carriers

import (
	"math"
	"strconv"
)

// minMeasure is the smallest weight or dimension ever put on the wire.
// Carriers reject exact-zero measurements, so anything below is clamped up.
const minMeasure = 0.1

// RoundMeasure rounds a measurement to 3 decimal places and clamps it to the
// carrier-accepted minimum.
func RoundMeasure(v float64) float64 {
	v = math.Round(v*1000) / 1000
	if v < minMeasure {
		return minMeasure
	}
	return v
}

// FormatMeasure renders a measurement for the wire: 3-decimal rounding,
// 0.1 floor, no trailing zeros.
func FormatMeasure(v float64) string {
	return strconv.FormatFloat(RoundMeasure(v), 'f', -1, 64)
}

// FormatMinorUnits converts an integer minor-unit amount (cents) to the
// fixed 2-decimal string carriers expect for monetary values.
func FormatMinorUnits(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + strconv.FormatInt(v/100, 10) + "." + pad2(v%100)
}

func pad2(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}

// DigitsOnly strips everything but digits from a phone or fax number.
func DigitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
