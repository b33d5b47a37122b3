package odp

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"tomdx/layout"
	"tomdx/styles"
)

// styleContainer merges style definitions into the document style table. It
// renders nothing itself.
type styleContainer struct {
	element
}

func newStyleContainer(base element) Node {
	n := &styleContainer{element: base}
	defs := make(map[string]styles.Properties)
	for _, child := range n.el.ChildElements() {
		switch child.FullTag() {
		case "style:style", "style:default-style":
			name := child.SelectAttrValue("style:name", "")
			if name == "" {
				continue
			}
			defs[name] = n.ctx.styleProperties(child)
		}
	}
	n.ctx.styles.Merge(defs)
	n.ctx.log.Debug("Styles merged", zap.String("container", n.Tag()), zap.Int("count", len(defs)))
	return n
}

func (n *styleContainer) Empty() bool {
	return true
}

func (n *styleContainer) MDX() (string, error) {
	return "", nil
}

func (n *styleContainer) Text() string {
	return ""
}

// collectFillImages registers named bitmaps used as backgrounds.
func (c *docContext) collectFillImages(doc *etree.Document) {
	for _, el := range doc.FindElements("//draw:fill-image") {
		name, href := el.SelectAttrValue("draw:name", ""), el.SelectAttrValue("xlink:href", "")
		if name != "" && href != "" {
			c.fillImages[name] = href
		}
	}
}

// pictureURL maps package picture reference to its published location.
func (c *docContext) pictureURL(href string) string {
	return strings.TrimSuffix(c.opts.ImageBase, "/") + "/" + strings.TrimPrefix(href, "Pictures/")
}

// styleProperties converts all property children of a style element, later
// declarations win.
func (c *docContext) styleProperties(el *etree.Element) styles.Properties {
	family := el.SelectAttrValue("style:family", "")

	var props styles.Properties
	for _, child := range el.ChildElements() {
		var converted styles.Properties
		switch child.FullTag() {
		case "style:graphic-properties", "loext:graphic-properties":
			converted = c.graphicProperties(child, family)
		case "style:paragraph-properties":
			converted = paragraphProperties(child)
		case "style:text-properties":
			converted = textProperties(child)
		case "style:drawing-page-properties":
			converted = c.drawingPageProperties(child)
		case "style:table-column-properties":
			if v := child.SelectAttrValue("style:column-width", ""); v != "" {
				converted.Set("width", v)
			}
		}
		props.Merge(converted)
	}
	return props
}

var hexColor = regexp.MustCompile(`#([0-9a-fA-F]{6})`)

func (c *docContext) graphicProperties(el *etree.Element, family string) styles.Properties {
	var props styles.Properties
	graphic := family == "graphic"

	padding := func(property, value string, page float64) {
		pct, err := layout.LengthToPercent(value, page)
		if err != nil {
			c.report(fmt.Errorf("style property %s: %w", property, err))
			return
		}
		if pct != "" {
			props.Set(property, pct)
		}
	}

	for _, attr := range el.Attr {
		value := attr.Value
		switch attr.FullKey() {
		case "draw:fill-color":
			switch {
			case graphic:
				props.Set("fill", value)
			case el.SelectAttrValue("draw:opacity", "") != "":
				props.Set("background-color", "rgb(from "+value+" r g b / "+el.SelectAttrValue("draw:opacity", "")+")")
			default:
				props.Set("background-color", value)
			}
		case "draw:fill":
			switch value {
			case "none":
				props.Set("fill", "none")
				props.Set("background-color", "transparent")
			case "bitmap":
				props.Set("background-repeat", "no-repeat")
			}
		case "draw:opacity":
			if graphic {
				props.Set("fill-opacity", value)
			}
		case "draw:shadow":
			if value == "visible" {
				props.Set("text-shadow", shadow(el))
			}
		case "draw:textarea-vertical-align":
			if strings.HasPrefix(family, "table") {
				continue
			}
			props.Set("display", "flex")
			props.Set("flex-direction", "column")
			switch value {
			case "middle":
				props.Set("justify-content", "center")
			case "bottom":
				props.Set("justify-content", "end")
			}
		case "svg:stroke-color":
			if graphic {
				props.Set("stroke", value)
			} else {
				props.Set("border-color", value)
			}
		case "svg:stroke-width":
			if !nonZero(value) {
				continue
			}
			switch {
			case !graphic:
				props.Set("border-width", value)
			case strings.HasSuffix(value, "cm"):
				w, _ := leadingFloat(value)
				props.Set("stroke-width", strconv.FormatFloat(w, 'f', 4, 64))
			default:
				props.Set("stroke-width", value)
			}
		case "fo:padding-top":
			padding("padding-top", value, c.page.Height)
		case "fo:padding-bottom":
			padding("padding-bottom", value, c.page.Height)
		case "fo:padding-left":
			padding("padding-left", value, c.page.Width)
		case "fo:padding-right":
			padding("padding-right", value, c.page.Width)
		}
	}
	return props
}

// shadow converts drawing shadow into text-shadow, 1cm is 37.8px.
func shadow(el *etree.Element) string {
	px := func(attr string) string {
		v, _ := leadingFloat(el.SelectAttrValue(attr, "0cm"))
		return strconv.FormatFloat(math.Floor(v*37.8+0.5), 'f', -1, 64) + "px"
	}
	opacity, _ := leadingFloat(el.SelectAttrValue("draw:shadow-opacity", "100%"))
	color := hexColor.ReplaceAllStringFunc(el.SelectAttrValue("draw:shadow-color", "#000000"), func(hex string) string {
		rgb, _ := strconv.ParseUint(hex[1:], 16, 32)
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", rgb>>16, rgb>>8&0xff, rgb&0xff, formatFloat(opacity/100))
	})
	return px("draw:shadow-offset-x") + " " + px("draw:shadow-offset-y") + " " + color
}

func paragraphProperties(el *etree.Element) styles.Properties {
	var props styles.Properties
	for _, attr := range el.Attr {
		value := attr.Value
		switch key := attr.FullKey(); key {
		case "fo:border":
			props.Set("border", value)
		case "fo:line-height":
			if strings.HasSuffix(value, "%") {
				// 100% in presentations looks closer to 1.2 in browsers
				v, _ := leadingFloat(value)
				props.Set("line-height", formatFloat((v+20)/100))
			} else {
				props.Set("line-height", value)
			}
		case "fo:margin-bottom", "fo:margin-left", "fo:margin-right", "fo:margin-top", "fo:text-indent":
			if nonZero(value) {
				props.Set(strings.TrimPrefix(key, "fo:"), value)
			}
		case "fo:text-align":
			if value != "start" {
				props.Set("text-align", value)
			}
		case "style:writing-mode":
			if value != "lr-tb" {
				props.Set("writing-mode", value)
			}
		}
	}
	return props
}

var lineThroughStyles = map[string]string{
	"solid":        "solid",
	"dotted":       "dotted",
	"dot-dash":     "dotted",
	"dot-dot-dash": "dotted",
	"dashed":       "dashed",
	"long-dash":    "dashed",
	"wave":         "wavy",
}

func textProperties(el *etree.Element) styles.Properties {
	var props styles.Properties
	for _, attr := range el.Attr {
		value := attr.Value
		switch attr.FullKey() {
		case "fo:background-color":
			props.Set("background-color", value)
		case "fo:color":
			props.Set("color", value)
		case "fo:font-size":
			props.Set("font-size", value)
		case "fo:font-weight":
			if value != "normal" {
				props.Set("font-weight", value)
			}
		case "fo:font-style":
			if value != "normal" {
				props.Set("font-style", value)
			}
		case "style:text-line-through-type":
			if value == "single" || value == "double" {
				props.Set("text-decoration", "line-through")
			}
		case "style:text-line-through-style":
			if v, ok := lineThroughStyles[value]; ok {
				props.Set("text-decoration-style", v)
			}
		case "style:text-line-through-width":
			props.Set("text-decoration-thickness", value)
		case "style:font-name":
			switch {
			case strings.Contains(value, "Mono"):
				props.Set("font-family", "'Courier New', Courier, monospace")
			case strings.Contains(value, "Serif"):
				props.Set("font-family", "Georgia, 'Times New Roman', Times, serif")
			}
			switch value {
			case "Bold":
				props.Set("font-weight", "bold")
			case "Light":
				props.Set("font-weight", "light")
			}
			if strings.Contains(value, "Italic") {
				props.Set("font-style", "italic")
			}
		case "fo:letter-spacing":
			if value != "normal" {
				props.Set("letter-spacing", value)
			}
		}
	}
	return props
}

func (c *docContext) drawingPageProperties(el *etree.Element) styles.Properties {
	var props styles.Properties
	for _, attr := range el.Attr {
		value := attr.Value
		switch attr.FullKey() {
		case "draw:fill-color":
			props.Set("background-color", value)
		case "draw:fill":
			if value == "bitmap" {
				props.Set("background-repeat", "no-repeat")
				props.Set("background-size", "cover")
			}
		case "draw:fill-image-name":
			href, ok := c.fillImages[value]
			if !ok {
				c.log.Warn("Unknown fill image", zap.String("name", value))
				continue
			}
			props.Set("background-image", "url('"+c.pictureURL(href)+"')")
			props.Set("background-repeat", "no-repeat")
			props.Set("background-size", "cover")
		}
	}
	return props
}
