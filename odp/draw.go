package odp

import (
	"math"
	"regexp"
	"strings"

	"tomdx/geometry"
	"tomdx/layout"
	"tomdx/styles"
)

// Page layout classes derived from master page names.
var masterPageLayouts = map[string]string{
	"caption_5f_only":                        "caption",
	"section_5f_title_5f_and_5f_description": "two-column with-description",
	"title":                                  "title",
	"title_5f_only":                          "title-with-points",
	"title_5f_and_5f_body":                   "title-with-points",
}

// page is a single slide.
type page struct {
	element
	style *styles.Handle
}

func newPage(base element) Node {
	n := &page{element: base}
	if n.ctx.opts.Heuristics {
		n.sc.layoutClass = masterPageLayouts[strings.ToLower(n.Attr("draw:master-page-name"))]
	}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("draw:style-name"))
	return n
}

// Empty is always false, slides without content are kept as breaks.
func (n *page) Empty() bool {
	return false
}

func (n *page) MDX() (string, error) {
	content, err := n.ctx.renderJoin(n.contentful(), "\n  ", false)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "<Slide />", nil
	}

	var childClass string
	if child, ok := n.sole(); ok {
		if lc, ok := child.(layoutClassifier); ok {
			childClass, err = lc.LayoutClass()
			if err != nil {
				if !n.ctx.opts.Placeholders {
					return "", &ElementError{Tag: child.Tag(), Ident: ident(child), Err: err}
				}
				// child placeholder already carries this failure
				childClass = ""
			}
		}
	}

	className := joinClasses(childClass, n.sc.layoutClass, n.Attr("presentation:class"), n.style.ClassList())
	open := "<Slide>"
	if className != "" {
		open = `<Slide className="` + className + `">`
	}
	return block(open, content, "</Slide>"), nil
}

func (n *page) Text() string {
	return n.joinText(n.contentful(), "\n", false)
}

// box returns declared geometry of a drawing element.
func box(e *element, presentationClass string) layout.Box {
	return layout.Box{
		X:                 e.Attr("svg:x"),
		Y:                 e.Attr("svg:y"),
		Width:             e.Attr("svg:width"),
		Height:            e.Attr("svg:height"),
		StyleName:         e.Attr("draw:style-name"),
		PresentationClass: presentationClass,
	}
}

func candidate(e *element, presentationClass string) (layout.Candidate, error) {
	b := box(e, presentationClass)
	pos, err := layout.GeneratePositioning(b, e.ctx.page, e.ctx.styles)
	if err != nil {
		return layout.Candidate{}, err
	}
	return layout.Candidate{Box: b, Positioning: pos, Sole: soleContent(e.parent)}, nil
}

type frame struct {
	element
	class     string
	style     *styles.Handle
	textStyle *styles.Handle
}

func newFrame(base element) Node {
	n := &frame{element: base}
	n.sc.frameWidth = n.Attr("svg:width")
	n.sc.frameHeight = n.Attr("svg:height")
	n.buildChildren(n)
	n.class = n.Attr("presentation:class")
	n.style = n.ctx.styles.Use(n.Attr("presentation:style-name"))
	n.textStyle = n.ctx.styles.Use(n.Attr("draw:text-style-name"))
	return n
}

func (n *frame) MDX() (string, error) {
	// geometry is validated even when it is not used, page classification
	// depends on it
	c, err := candidate(&n.element, n.class)
	if err != nil {
		return "", err
	}

	heuristics := n.ctx.opts.Heuristics
	if heuristics && (n.class == "title" || n.class == "subtitle") {
		return n.Text(), nil
	}

	content, err := n.ctx.renderJoin(n.contentful(), "\n", false)
	if err != nil {
		return "", err
	}
	if heuristics && n.sc.layoutClass == "two-column with-description" && n.class == "outline" {
		return block("<div>", content, "</div>"), nil
	}

	if !layout.NeedsPositioning(c) {
		return content, nil
	}
	classes := joinClasses(n.style.ClassList(), n.textStyle.ClassList())
	return block("<div"+classAttr(classes)+" style={"+c.Positioning.StyleObject()+"}>", content, "</div>"), nil
}

var whitespace = regexp.MustCompile(`\s+`)

func (n *frame) Text() string {
	content := n.joinText(n.contentful(), "", false)
	switch n.class {
	case "title", "outline":
		return "# " + whitespace.ReplaceAllString(strings.TrimSpace(content), " ")
	case "subtitle":
		return "## " + whitespace.ReplaceAllString(strings.TrimSpace(content), " ")
	}
	return content
}

func (n *frame) LayoutClass() (string, error) {
	c, err := candidate(&n.element, n.class)
	if err != nil {
		return "", err
	}
	return layout.Classify(c, n.ctx.opts.Heuristics), nil
}

// customShape is a vector shape, rendered as svg when it has real geometry.
type customShape struct {
	element
	style *styles.Handle
}

func newCustomShape(base element) Node {
	n := &customShape{element: base}
	n.sc.shape = n
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("draw:style-name"))
	return n
}

// isSVG is false for shapes without geometry and for single plain rectangles
// which only draw a border.
func (n *customShape) isSVG() bool {
	var geometries []*enhancedGeometry
	for _, child := range n.children {
		if g, ok := child.(*enhancedGeometry); ok {
			geometries = append(geometries, g)
		}
	}
	switch len(geometries) {
	case 0:
		return false
	case 1:
		return geometries[0].Attr("draw:type") != "ooxml-rect"
	}
	return true
}

func (n *customShape) viewBox() geometry.ViewBox {
	if vb, ok := geometry.ParseViewBox(n.Attr("svg:viewBox")); ok {
		return vb
	}
	w, okw := leadingFloat(n.Attr("svg:width"))
	h, okh := leadingFloat(n.Attr("svg:height"))
	if okw && okh {
		return geometry.ViewBox{Width: math.Round(w), Height: math.Round(h)}
	}
	return geometry.UnitBox
}

func (n *customShape) MDX() (string, error) {
	c, err := candidate(&n.element, "")
	if err != nil {
		return "", err
	}
	positioned := layout.NeedsPositioning(c)
	if positioned {
		if err := layout.ComposeTransform(n.Attr("draw:transform"), n.ctx.page, c.Positioning); err != nil {
			return "", err
		}
	}

	if code, ok := n.ctx.codeSnippet(&n.element, n.Text()); ok {
		if positioned {
			return block("<div style={"+c.Positioning.StyleObject()+"}>", code, "</div>"), nil
		}
		return code, nil
	}

	content, err := n.ctx.renderJoin(n.contentful(), "", false)
	if err != nil {
		return "", err
	}
	var divClass string
	if n.isSVG() {
		content = n.wrapSVG(content)
	} else {
		divClass = classAttr(n.style.ClassList())
	}
	if !positioned {
		return content, nil
	}
	return block("<div"+divClass+" style={"+c.Positioning.StyleObject()+"}>", content, "</div>"), nil
}

func (n *customShape) wrapSVG(content string) string {
	vb := n.viewBox()
	attrs := []string{
		`xmlns="http://www.w3.org/2000/svg"`,
		`viewBox="0 0 ` + formatFloat(vb.Width) + " " + formatFloat(vb.Height) + `"`,
		`className="` + joinClasses("w-full h-full", n.style.ClassList()) + `"`,
	}
	if name := n.Attr("draw:name"); name != "" {
		attrs = append(attrs, `data-name="`+name+`"`)
	}
	return block("<svg "+strings.Join(attrs, " ")+">", content, "</svg>")
}

func (n *customShape) Text() string {
	return n.joinText(n.contentful(), "", true)
}

func (n *customShape) LayoutClass() (string, error) {
	c, err := candidate(&n.element, "")
	if err != nil {
		return "", err
	}
	return layout.Classify(c, n.ctx.opts.Heuristics), nil
}

// shape collects formula evaluation inputs for element e.
func shape(e *element) geometry.Shape {
	s := geometry.Shape{
		Ident:     ident(e),
		ViewBox:   geometry.UnitBox,
		Modifiers: e.Attr("draw:modifiers"),
		Formulas:  make(map[string]string),
		Path:      e.Attr("draw:enhanced-path"),
		StretchX:  e.Attr("draw:path-stretchpoint-x"),
		StretchY:  e.Attr("draw:path-stretchpoint-y"),
	}
	s.HasPath = s.Path != ""
	if s.Ident == "" {
		s.Ident = s.Path
	}
	if owner := e.sc.shape; owner != nil {
		s.ViewBox = owner.viewBox()
		s.Width = owner.Attr("svg:width")
		s.Height = owner.Attr("svg:height")
	}
	for _, child := range e.children {
		if eq, ok := child.(*equation); ok {
			if name := eq.Attr("draw:name"); name != "" {
				s.Formulas[name] = eq.Attr("draw:formula")
			}
		}
	}
	return s
}

// pathMarkup renders svg path of e, empty when e has no path.
func pathMarkup(e *element, style *styles.Handle) (string, error) {
	d, ok, err := geometry.NewEvaluator(shape(e), e.ctx.log).SVGPath()
	if err != nil {
		return "", err
	}
	if !ok || d == "" {
		return "", nil
	}
	return "<path" + classAttr(style.ClassList()) + ` d="` + d + `" />`, nil
}

type enhancedGeometry struct {
	element
	style *styles.Handle
}

func newEnhancedGeometry(base element) Node {
	n := &enhancedGeometry{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("draw:style-name"))
	return n
}

func (n *enhancedGeometry) Empty() bool {
	return false
}

func (n *enhancedGeometry) MDX() (string, error) {
	markup, err := pathMarkup(&n.element, n.style)
	if err != nil || markup == "" {
		return "", err
	}
	content, err := n.ctx.renderJoin(n.contentful(), "", false)
	if err != nil {
		return "", err
	}
	return markup + content, nil
}

func (n *enhancedGeometry) Text() string {
	return ""
}

// equation only feeds formulas to its geometry.
type equation struct {
	element
}

func newEquation(base element) Node {
	return &equation{element: base}
}

func (n *equation) Empty() bool {
	return true
}

func (n *equation) MDX() (string, error) {
	return "", nil
}

func (n *equation) Text() string {
	return ""
}

type path struct {
	element
	style *styles.Handle
}

func newPath(base element) Node {
	n := &path{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("draw:style-name"))
	return n
}

func (n *path) Empty() bool {
	return false
}

func (n *path) MDX() (string, error) {
	return pathMarkup(&n.element, n.style)
}

func (n *path) Text() string {
	return n.joinText(n.contentful(), "", true)
}

type group struct {
	element
	style *styles.Handle
}

func newGroup(base element) Node {
	n := &group{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("draw:style-name"))
	return n
}

func (n *group) MDX() (string, error) {
	content, err := n.ctx.renderJoin(n.contentful(), "", true)
	if err != nil {
		return "", err
	}
	return block("<div"+classAttr(n.style.ClassList())+` data-name="`+n.Attr("draw:name")+`">`, content, "</div>"), nil
}

func (n *group) Text() string {
	return n.joinText(n.contentful(), "", true)
}

type image struct {
	element
	href string
	alt  string
}

func newImage(base element) Node {
	n := &image{element: base}
	n.buildChildren(n)
	n.href = n.Attr("xlink:href")
	if n.href == "" {
		n.href = n.Attr("href")
	}
	n.alt = strings.TrimSpace(textContent(n.el))
	if n.alt == "" {
		n.alt = "image"
	}
	return n
}

// Empty is true for missing references and for StarView metafiles, which
// browsers cannot show.
func (n *image) Empty() bool {
	return n.href == "" || strings.HasSuffix(n.href, ".svm")
}

func (n *image) src() string {
	return n.ctx.pictureURL(n.href)
}

// fill reports whether the nearest enclosing frame declares its size.
func (n *image) fill() bool {
	for p := n.el.Parent(); p != nil; p = p.Parent() {
		if p.FullTag() == "draw:frame" {
			return p.SelectAttrValue("svg:width", "") != "" && p.SelectAttrValue("svg:height", "") != ""
		}
	}
	return false
}

func (n *image) MDX() (string, error) {
	if n.Empty() {
		return "", nil
	}
	if !n.fill() {
		return n.Text(), nil
	}
	return "<Image\n" +
		`  alt="` + n.alt + `"` + "\n" +
		`  src="` + n.src() + `"` + "\n" +
		`  className="w-full h-full object-contain"` + "\n" +
		"/>", nil
}

func (n *image) Text() string {
	return "![" + n.alt + "](" + n.src() + ")"
}

type textBox struct {
	element
	style *styles.Handle
}

func newTextBox(base element) Node {
	n := &textBox{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("draw:text-style-name"))
	return n
}

func (n *textBox) MDX() (string, error) {
	if code, ok := n.ctx.codeSnippet(&n.element, n.Text()); ok {
		return code, nil
	}
	content, err := n.ctx.renderJoin(n.contentful(), " ", false)
	if err != nil {
		return "", err
	}
	return "<pre" + classAttr(n.style.ClassList()) + ">" + content + "</pre>", nil
}

func (n *textBox) Text() string {
	return n.joinText(n.contentful(), "", false)
}
