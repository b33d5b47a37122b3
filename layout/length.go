// Package layout converts absolute geometry of presentation elements into
// page relative positioning and classifies simple layouts.
package layout

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrMalformedLength is returned for lengths without the expected unit.
var ErrMalformedLength = errors.New("malformed length")

// Dimensions is page size in centimeters.
type Dimensions struct {
	Width, Height float64
}

// Valid reports whether both dimensions are known.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

var lengthRe = regexp.MustCompile(`^(-?[\d.]+)cm$`)

// ParseLength returns numeric value of length in centimeters.
func ParseLength(length string) (float64, error) {
	m := lengthRe.FindStringSubmatch(length)
	if m == nil {
		return 0, fmt.Errorf("%w: expected 'cm' but got %q", ErrMalformedLength, length)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLength, length)
	}
	return v, nil
}

// LengthToPercent converts length into percentage of page dimension with one
// decimal. Empty result means either input is absent. Values which round to
// zero are reported as "0.1%" so thin elements do not collapse.
func LengthToPercent(length string, page float64) (string, error) {
	if length == "" || page == 0 {
		return "", nil
	}
	v, err := ParseLength(length)
	if err != nil {
		return "", err
	}
	return formatPercent(v / page * 100), nil
}

func formatPercent(v float64) string {
	s := strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
	if s == "0.0" || s == "-0.0" {
		return "0.1%"
	}
	return s + "%"
}

// parsePercent parses "12.5%" and plain numbers.
func parsePercent(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if s[len(s)-1] == '%' {
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
