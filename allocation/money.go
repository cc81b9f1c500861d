package allocation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents converts a float64 amount to int64 cents.
// Uses math.Round (half away from zero) to avoid truncation bias.
func Cents(f float64) int64 {
	return int64(math.Round(f * 100))
}

// CentsToAmount converts int64 cents to a float64 amount rounded to 2 decimal places.
func CentsToAmount(c int64) float64 {
	return math.Round(float64(c)) / 100.0
}

// ParseAmount converts a decimal string like "12.34" to int64 cents.
// At most 2 decimal places are accepted; more precision is an error.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount cannot be empty")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.Index(s, "."); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("amount %q has no digits", s)
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("amount %q has more than 2 decimal places", s)
	}
	// Pad to exactly two digits so "12.3" means 12.30
	fracPart = fracPart + strings.Repeat("0", 2-len(fracPart))

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	cents := whole*100 + frac
	if neg {
		cents = -cents
	}
	return cents, nil
}

// FormatCents converts int64 cents to a decimal string like "12.34".
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// PercentToBasisPoints converts a decimal percentage (e.g. 12.5) to basis points (1250).
func PercentToBasisPoints(v float64) int64 {
	return int64(math.Round(v * 100))
}

// BasisPointsToPercent converts basis points back to a decimal percentage.
func BasisPointsToPercent(bp int64) float64 {
	return float64(bp) / 100.0
}
