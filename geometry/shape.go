// Package geometry evaluates shape formulas and decodes enhanced path
// commands into SVG path data.
package geometry

import (
	"strconv"
	"strings"
)

// ViewBox is the local coordinate rectangle formulas are evaluated against.
type ViewBox struct {
	X, Y, Width, Height float64
}

// UnitBox is used when view box cannot be determined.
var UnitBox = ViewBox{Width: 1, Height: 1}

// ParseViewBox parses "x y width height". Box of all zeroes is treated as
// absent.
func ParseViewBox(s string) (ViewBox, bool) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return ViewBox{}, false
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, false
		}
		v[i] = n
	}
	vb := ViewBox{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	if vb == (ViewBox{}) {
		return ViewBox{}, false
	}
	return vb, true
}

func (vb ViewBox) String() string {
	return strings.Join([]string{
		strconv.FormatFloat(vb.X, 'f', -1, 64),
		strconv.FormatFloat(vb.Y, 'f', -1, 64),
		strconv.FormatFloat(vb.Width, 'f', -1, 64),
		strconv.FormatFloat(vb.Height, 'f', -1, 64),
	}, " ")
}

// Shape carries everything formula evaluation needs from a single element.
type Shape struct {
	// Ident names the element in error messages (style or shape name).
	Ident string
	// ViewBox is supplied by the containing shape, zero value means unit box.
	ViewBox ViewBox
	// Modifiers is the raw draw:modifiers value.
	Modifiers string
	// Formulas maps draw:equation names to their formulas.
	Formulas map[string]string
	// Path is the raw draw:enhanced-path value, HasPath is false when the
	// attribute is absent.
	Path    string
	HasPath bool
	// Width and Height are declared sizes of the containing shape.
	Width, Height string
	// StretchX and StretchY are draw:path-stretchpoint-x/y.
	StretchX, StretchY string
}
