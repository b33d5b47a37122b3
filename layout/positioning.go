package layout

import (
	"strconv"
	"strings"

	"tomdx/styles"
)

// Box is absolute geometry of an element as declared in the document, every
// field may be empty.
type Box struct {
	X, Y, Width, Height string

	// StyleName is the graphic style of the element, its padding enlarges
	// the box.
	StyleName string
	// PresentationClass is the placeholder role, "title" and "subtitle" get
	// special treatment.
	PresentationClass string
}

// HasGeometry reports whether any of position or size is declared.
func (b Box) HasGeometry() bool {
	return b.X != "" || b.Y != "" || b.Width != "" || b.Height != ""
}

// TitleRole reports whether element is a title or subtitle placeholder.
func (b Box) TitleRole() bool {
	return b.PresentationClass == "title" || b.PresentationClass == "subtitle"
}

// Positioning is page relative absolute placement of an element. Lengths are
// percentages with one decimal, empty when unknown.
type Positioning struct {
	Left, Top, Width, Height string

	Transform       string
	TransformOrigin string
}

// GeneratePositioning converts box into percentage positioning relative to
// page. Nil is returned for elements without any geometry.
func GeneratePositioning(box Box, page Dimensions, table *styles.Table) (*Positioning, error) {
	if !box.HasGeometry() {
		return nil, nil
	}

	var (
		pos Positioning
		err error
	)
	if pos.Left, err = LengthToPercent(box.X, page.Width); err != nil {
		return nil, err
	}
	if pos.Top, err = LengthToPercent(box.Y, page.Height); err != nil {
		return nil, err
	}
	if pos.Width, err = LengthToPercent(box.Width, page.Width); err != nil {
		return nil, err
	}
	if pos.Height, err = LengthToPercent(box.Height, page.Height); err != nil {
		return nil, err
	}

	if table != nil && box.StyleName != "" {
		pos.applyPadding(table.Properties(box.StyleName))
	}
	return &pos, nil
}

// applyPadding grows the box by style padding so content keeps its place.
func (p *Positioning) applyPadding(props styles.Properties) {
	padding := func(name string) float64 {
		v, _ := parsePercent(props.Value(name))
		return v
	}
	left, right := padding("padding-left"), padding("padding-right")
	top, bottom := padding("padding-top"), padding("padding-bottom")

	adjust := func(value *string, delta float64) {
		if delta == 0 {
			return
		}
		if v, ok := parsePercent(*value); ok {
			*value = strconv.FormatFloat(v+delta, 'f', 1, 64) + "%"
		}
	}
	adjust(&p.Left, -left)
	adjust(&p.Top, -top)
	adjust(&p.Width, left+right)
	adjust(&p.Height, top+bottom)
}

// Center returns center point of the box in percent, false when any of the
// coordinates is unknown.
func (p *Positioning) Center() (x, y float64, ok bool) {
	if p == nil {
		return 0, 0, false
	}
	left, ok1 := parsePercent(p.Left)
	top, ok2 := parsePercent(p.Top)
	width, ok3 := parsePercent(p.Width)
	height, ok4 := parsePercent(p.Height)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, 0, false
	}
	return left + width/2, top + height/2, true
}

// StyleObject renders positioning as inline JSX style object.
func (p *Positioning) StyleObject() string {
	if p == nil {
		return "{}"
	}
	var b strings.Builder
	b.WriteString(`{position:"absolute",zIndex:1`)
	field := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteByte(',')
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strconv.Quote(value))
	}
	field("left", p.Left)
	field("top", p.Top)
	field("width", p.Width)
	field("height", p.Height)
	field("transform", p.Transform)
	field("transformOrigin", p.TransformOrigin)
	b.WriteByte('}')
	return b.String()
}
