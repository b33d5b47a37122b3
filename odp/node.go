package odp

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tomdx/css"
	"tomdx/layout"
	"tomdx/styles"
)

// Options control rendering of a single document.
type Options struct {
	// Heuristics enables title detection, layout classes and code blocks.
	Heuristics bool
	// Placeholders substitutes failed elements with MDX comments instead
	// of aborting the whole document.
	Placeholders bool
	// ImageBase is URL prefix of the extracted pictures.
	ImageBase string
	// ClassOverrides replace or extend canonical class names.
	ClassOverrides []css.ClassOverride
}

// Node is a single rendered element of the document tree.
type Node interface {
	// Tag is the qualified element name, empty for text.
	Tag() string
	Attr(name string) string
	Children() []Node
	// Empty reports whether node contributes nothing to the output.
	Empty() bool
	// MDX renders node markup.
	MDX() (string, error)
	// Text renders node as plain text.
	Text() string
}

type constructor func(base element) Node

// registry maps qualified element names to node constructors, elements with
// unknown names are skipped together with their content.
var registry map[string]constructor

func init() {
	registry = map[string]constructor{
		"office:document-content":    newContainer,
		"office:document-styles":     newContainer,
		"office:body":                newContainer,
		"office:presentation":        newPresentation,
		"office:automatic-styles":    newStyleContainer,
		"office:styles":              newStyleContainer,
		"draw:page":                  newPage,
		"draw:frame":                 newFrame,
		"draw:custom-shape":          newCustomShape,
		"draw:enhanced-geometry":     newEnhancedGeometry,
		"draw:equation":              newEquation,
		"draw:path":                  newPath,
		"draw:g":                     newGroup,
		"draw:image":                 newImage,
		"draw:text-box":              newTextBox,
		"presentation:notes":         newNotes,
		"text:p":                     newParagraph,
		"text:h":                     newParagraph,
		"text:span":                  newSpan,
		"text:a":                     newLink,
		"text:list":                  newList,
		"text:list-item":             newListItem,
		"text:line-break":            newLineBreak,
		"text:s":                     newSpace,
		"text:tab":                   newTab,
		"table:table":                newTable,
		"table:table-column":         newTableColumn,
		"table:table-row":            newTableRow,
		"table:table-cell":           newTableCell,
		"table:table-header-rows":    newContainer,
		"table:table-rows":           newContainer,
		"table:table-header-columns": newContainer,
		"table:table-columns":        newContainer,
	}
}

// docContext is shared by all nodes of a single document.
type docContext struct {
	log    *zap.Logger
	styles *styles.Table
	page   layout.Dimensions
	opts   Options

	// fill image name -> picture href
	fillImages map[string]string

	buildErr error
	errs     error
}

// scope carries values inherited from ancestors.
type scope struct {
	layoutClass      string
	shape            *customShape
	frameWidth       string
	frameHeight      string
	defaultCellStyle string
}

func (s scope) svg() bool {
	return s.shape != nil && s.shape.isSVG()
}

// report records failure which happens outside of rendering.
func (c *docContext) report(err error) {
	if c.opts.Placeholders {
		c.log.Warn("Ignoring malformed document data", zap.Error(err))
		c.errs = multierr.Append(c.errs, err)
		return
	}
	if c.buildErr == nil {
		c.buildErr = err
	}
}

// render produces node markup applying element failure policy.
func (c *docContext) render(n Node) (string, error) {
	out, err := n.MDX()
	if err == nil {
		return out, nil
	}
	var ee *ElementError
	if !errors.As(err, &ee) {
		err = &ElementError{Tag: n.Tag(), Ident: ident(n), Err: err}
	}
	if !c.opts.Placeholders {
		return "", err
	}
	c.log.Warn("Unable to render element, using placeholder", zap.Error(err))
	c.errs = multierr.Append(c.errs, err)
	return placeholder(err), nil
}

// renderJoin renders nodes and joins results with sep. With skipBlank
// whitespace only results are dropped.
func (c *docContext) renderJoin(nodes []Node, sep string, skipBlank bool) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out, err := c.render(n)
		if err != nil {
			return "", err
		}
		if skipBlank && strings.TrimSpace(out) == "" {
			continue
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, sep), nil
}

type attributed interface {
	Attr(name string) string
}

// ident names element in error messages.
func ident(n attributed) string {
	for _, name := range []string{"draw:name", "draw:style-name", "presentation:style-name", "text:style-name", "table:style-name"} {
		if v := n.Attr(name); v != "" {
			return v
		}
	}
	return ""
}

// element is embedded by all nodes backed by XML element.
type element struct {
	el       *etree.Element
	ctx      *docContext
	sc       scope
	parent   Node
	children []Node
}

func (e *element) Tag() string {
	return e.el.FullTag()
}

func (e *element) Attr(name string) string {
	return e.el.SelectAttrValue(name, "")
}

func (e *element) Children() []Node {
	return e.children
}

func (e *element) Empty() bool {
	return len(e.contentful()) == 0
}

// buildChildren must be called by constructors after scope adjustments, self
// becomes parent of created children.
func (e *element) buildChildren(self Node) {
	for _, token := range e.el.Child {
		switch t := token.(type) {
		case *etree.Element:
			if child := build(t, e.ctx, e.sc, self); child != nil {
				e.children = append(e.children, child)
			}
		case *etree.CharData:
			e.children = append(e.children, newPlainText(t.Data))
		}
	}
}

func (e *element) contentful() []Node {
	out := make([]Node, 0, len(e.children))
	for _, child := range e.children {
		if !child.Empty() {
			out = append(out, child)
		}
	}
	return out
}

// sole returns the only contentful child not counting speaker notes.
func (e *element) sole() (Node, bool) {
	var found Node
	for _, child := range e.contentful() {
		if _, ok := child.(*notes); ok {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = child
	}
	return found, found != nil
}

// soleContent reports whether parent has at most one contentful child not
// counting speaker notes.
func soleContent(parent Node) bool {
	if parent == nil {
		return false
	}
	count := 0
	for _, child := range parent.Children() {
		if _, ok := child.(*notes); ok || child.Empty() {
			continue
		}
		count++
	}
	return count <= 1
}

func (e *element) joinText(nodes []Node, sep string, skipBlank bool) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s := n.Text()
		if skipBlank && strings.TrimSpace(s) == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

func build(el *etree.Element, ctx *docContext, sc scope, parent Node) Node {
	fn, ok := registry[el.FullTag()]
	if !ok {
		return nil
	}
	return fn(element{el: el, ctx: ctx, sc: sc, parent: parent})
}

// layoutClassifier is implemented by nodes which may decide page layout.
type layoutClassifier interface {
	LayoutClass() (string, error)
}

// block renders open and close tags around indented content.
func block(open, content, close string) string {
	return open + "\n  " + content + "\n" + close
}

func classAttr(classes string) string {
	if classes == "" {
		return ""
	}
	return ` className="` + classes + `"`
}

// joinClasses joins non empty class lists.
func joinClasses(lists ...string) string {
	parts := make([]string, 0, len(lists))
	for _, l := range lists {
		if l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}

// container passes children through.
type container struct {
	element
}

func newContainer(base element) Node {
	n := &container{element: base}
	n.buildChildren(n)
	return n
}

func (n *container) MDX() (string, error) {
	return n.ctx.renderJoin(n.contentful(), "", false)
}

func (n *container) Text() string {
	return n.joinText(n.contentful(), "", false)
}

type presentation struct {
	element
}

func newPresentation(base element) Node {
	n := &presentation{element: base}
	n.buildChildren(n)
	return n
}

func (n *presentation) MDX() (string, error) {
	slides, err := n.ctx.renderJoin(n.contentful(), "\n", false)
	if err != nil {
		return "", err
	}
	return "<Slides>\n" + slides + "\n</Slides>", nil
}

func (n *presentation) Text() string {
	return n.joinText(n.contentful(), "", false)
}
