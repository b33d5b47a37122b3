package odp

import (
	"github.com/beevik/etree"

	"tomdx/layout"
)

// inferPageSize finds slide size in centimeters. The page layout of the most
// used master page is tried first, then any page layout with both sizes, and
// at last the largest frame on any slide.
func inferPageSize(content, styles *etree.Document) (layout.Dimensions, bool) {
	if d, ok := masterPageSize(content, styles); ok {
		return d, true
	}
	if d, ok := anyPageLayoutSize(styles); ok {
		return d, true
	}
	return largestFrame(content)
}

func sizeOf(el *etree.Element, widthAttr, heightAttr string) (layout.Dimensions, bool) {
	w, err := layout.ParseLength(el.SelectAttrValue(widthAttr, ""))
	if err != nil {
		return layout.Dimensions{}, false
	}
	h, err := layout.ParseLength(el.SelectAttrValue(heightAttr, ""))
	if err != nil {
		return layout.Dimensions{}, false
	}
	return layout.Dimensions{Width: w, Height: h}, true
}

func masterPageSize(content, styles *etree.Document) (layout.Dimensions, bool) {
	var (
		order  []string
		counts = make(map[string]int)
	)
	for _, p := range content.FindElements("//draw:page") {
		name := p.SelectAttrValue("draw:master-page-name", "")
		if name == "" {
			continue
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	var master string
	for _, name := range order {
		if counts[name] > counts[master] {
			master = name
		}
	}
	if master == "" {
		return layout.Dimensions{}, false
	}

	var layoutName string
	for _, mp := range styles.FindElements("//style:master-page") {
		if mp.SelectAttrValue("style:name", "") == master {
			layoutName = mp.SelectAttrValue("style:page-layout-name", "")
			break
		}
	}
	if layoutName == "" {
		return layout.Dimensions{}, false
	}
	for _, pl := range styles.FindElements("//style:page-layout") {
		if pl.SelectAttrValue("style:name", "") != layoutName {
			continue
		}
		props := pl.FindElement(".//style:page-layout-properties")
		if props == nil {
			return layout.Dimensions{}, false
		}
		return sizeOf(props, "fo:page-width", "fo:page-height")
	}
	return layout.Dimensions{}, false
}

func anyPageLayoutSize(styles *etree.Document) (layout.Dimensions, bool) {
	for _, props := range styles.FindElements("//style:page-layout-properties") {
		if d, ok := sizeOf(props, "fo:page-width", "fo:page-height"); ok {
			return d, true
		}
	}
	return layout.Dimensions{}, false
}

func largestFrame(content *etree.Document) (layout.Dimensions, bool) {
	var largest layout.Dimensions
	for _, f := range content.FindElements("//draw:frame") {
		d, ok := sizeOf(f, "svg:width", "svg:height")
		if !ok {
			continue
		}
		largest.Width = max(largest.Width, d.Width)
		largest.Height = max(largest.Height, d.Height)
	}
	return largest, largest.Valid()
}
