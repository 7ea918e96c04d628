package core

// convert.go turns cleaned sheet cells into numbers.
//
// Sheets exported from Google Sheets carry the display format of a cell,
// so numbers arrive as "1,000" or "5.0". Both are accepted for integers
// as long as the value is integral.

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseInt parses s as an integer, allowing thousands separators and an
// integral decimal form. Values must fit the game's 32-bit ints.
func ParseInt(s string) (int, error) {
	clean := stripNumber(s)
	if n, err := strconv.ParseInt(clean, 10, 32); err == nil {
		return int(n), nil
	} else if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("integer out of range %q", s)
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("integer out of range %q", s)
	}
	return int(f), nil
}

// ParseFloat parses s as a finite float, allowing thousands separators.
func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(stripNumber(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// FormatFloat renders f the way the game data expects: shortest exact
// form, always with a decimal point ("5.0", "0.25").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func stripNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
