package odp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/xlab/treeprint"

	"tomdx/geometry"
)

// dumpAttrs are shown next to element names in tree dumps.
var dumpAttrs = []string{
	"draw:name", "presentation:class", "draw:master-page-name",
	"draw:style-name", "presentation:style-name", "draw:text-style-name",
	"text:style-name", "table:style-name", "draw:type",
}

// Dump renders parsed element tree for debugging.
func (d *Document) Dump() string {
	tree := treeprint.NewWithRoot(fmt.Sprintf("document (page %gx%gcm)", d.Page.Width, d.Page.Height))
	if d.root != nil {
		dumpNode(tree, d.root)
	}
	return tree.String()
}

func dumpNode(tree treeprint.Tree, n Node) {
	if n.Tag() == "" {
		if text := strings.TrimSpace(n.Text()); text != "" {
			tree.AddNode(fmt.Sprintf("%q", text))
		}
		return
	}

	label := n.Tag()
	for _, name := range dumpAttrs {
		if v := n.Attr(name); v != "" {
			label += fmt.Sprintf(" %s=%q", name, v)
		}
	}
	if n.Empty() {
		label += " (empty)"
	}
	if len(n.Children()) == 0 {
		tree.AddNode(label)
		return
	}
	branch := tree.AddBranch(label)
	for _, child := range n.Children() {
		dumpNode(branch, child)
	}
}

// DumpStyles lists declared styles and their properties in natural order of
// names, used ones are marked.
func (d *Document) DumpStyles() string {
	used := make(map[string]bool)
	for _, name := range d.Styles.Used() {
		used[name] = true
	}
	names := d.Styles.Names()
	sort.Sort(natural.StringSlice(names))

	tree := treeprint.NewWithRoot(fmt.Sprintf("styles (%d defined, %d used)", len(names), len(used)))
	for _, name := range names {
		label := name
		if used[name] {
			label += " *"
		}
		props := d.Styles.Properties(name)
		if len(props) == 0 {
			tree.AddNode(label)
			continue
		}
		branch := tree.AddBranch(label)
		for _, p := range props {
			branch.AddNode(p.Declaration())
		}
	}
	classes := tree.AddBranch("generated")
	for _, c := range d.Styles.Generated() {
		classes.AddNode(c.Name + " " + c.Declaration)
	}
	return tree.String()
}

// ShapeSVG is a vector shape as standalone svg document.
type ShapeSVG struct {
	Name string
	SVG  []byte
}

// Shapes returns svg documents of all vector shapes for previews. Paths
// which fail to evaluate are left out.
func (d *Document) Shapes() []ShapeSVG {
	var out []ShapeSVG
	var walk func(n Node)
	walk = func(n Node) {
		if cs, ok := n.(*customShape); ok && cs.isSVG() {
			if s, ok := d.shapeSVG(cs); ok {
				if s.Name == "" {
					s.Name = fmt.Sprintf("shape-%d", len(out)+1)
				}
				out = append(out, s)
			}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	if d.root != nil {
		walk(d.root)
	}
	return out
}

func (d *Document) shapeSVG(cs *customShape) (ShapeSVG, bool) {
	var paths []string
	for _, child := range cs.children {
		var e *element
		switch c := child.(type) {
		case *enhancedGeometry:
			e = &c.element
		case *path:
			e = &c.element
		default:
			continue
		}
		p, ok, err := geometry.NewEvaluator(shape(e), d.ctx.log).SVGPath()
		if err != nil || !ok || p == "" {
			continue
		}
		paths = append(paths, `<path d="`+p+`"/>`)
	}
	if len(paths) == 0 {
		return ShapeSVG{}, false
	}
	vb := cs.viewBox()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 ` + formatFloat(vb.Width) + " " + formatFloat(vb.Height) + `">` +
		strings.Join(paths, "") + `</svg>`
	return ShapeSVG{Name: cs.Attr("draw:name"), SVG: []byte(svg)}, true
}
