package odp

import (
	"strconv"

	"tomdx/layout"
	"tomdx/styles"
)

type table struct {
	element
	style *styles.Handle
}

func newTable(base element) Node {
	n := &table{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("table:style-name"))
	return n
}

// parts splits table content into column declarations and rows, grouping
// containers are looked through.
func (n *table) parts() (columns, rows []Node) {
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, child := range nodes {
			switch child.(type) {
			case *tableColumn:
				columns = append(columns, child)
			case *tableRow:
				rows = append(rows, child)
			case *container:
				walk(child.Children())
			}
		}
	}
	walk(n.children)
	return columns, rows
}

func (n *table) MDX() (string, error) {
	columns, rows := n.parts()
	head, err := n.ctx.renderJoin(columns, "\n", false)
	if err != nil {
		return "", err
	}
	body, err := n.ctx.renderJoin(rows, "\n", false)
	if err != nil {
		return "", err
	}
	return "<table" + classAttr(joinClasses("w-full h-full", n.style.ClassList())) + ">\n" +
		"  <thead>\n    " + head + "\n  </thead>\n" +
		"  <tbody>\n    " + body + "\n  </tbody>\n" +
		"</table>", nil
}

func (n *table) Text() string {
	_, rows := n.parts()
	return n.joinText(rows, "\n", false)
}

// tableColumn declares column width relative to enclosing frame.
type tableColumn struct {
	element
}

func newTableColumn(base element) Node {
	return &tableColumn{element: base}
}

func (n *tableColumn) width() (string, error) {
	width := n.ctx.styles.Properties(n.Attr("table:style-name")).Value("width")
	if width == "" {
		return "100%", nil
	}
	if frame, ok := leadingFloat(n.sc.frameWidth); ok && frame != 0 {
		pct, err := layout.LengthToPercent(width, frame)
		if err != nil {
			return "", err
		}
		width = pct
	}
	return width, nil
}

func (n *tableColumn) MDX() (string, error) {
	width, err := n.width()
	if err != nil {
		return "", err
	}
	return `<th scope="col" style={{width:` + strconv.Quote(width) + `}} />`, nil
}

func (n *tableColumn) Text() string {
	return ""
}

type tableRow struct {
	element
	style *styles.Handle
}

func newTableRow(base element) Node {
	n := &tableRow{element: base}
	n.sc.defaultCellStyle = n.Attr("table:default-cell-style-name")
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("table:style-name"))
	return n
}

func (n *tableRow) MDX() (string, error) {
	content, err := n.ctx.renderJoin(n.children, "", false)
	if err != nil {
		return "", err
	}
	return block("<tr"+classAttr(n.style.ClassList())+">", content, "</tr>"), nil
}

func (n *tableRow) Text() string {
	return n.joinText(n.children, " | ", false)
}

type tableCell struct {
	element
	style        *styles.Handle
	defaultStyle *styles.Handle
}

func newTableCell(base element) Node {
	n := &tableCell{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("table:style-name"))
	n.defaultStyle = n.ctx.styles.Use(n.sc.defaultCellStyle)
	return n
}

// MDX renders cell with its own or row default style, vertical padding is
// dropped since rows are sized by the table.
func (n *tableCell) MDX() (string, error) {
	effective := n.style
	if effective.Empty() {
		effective = n.defaultStyle
	}
	effective = effective.Without("padding-top", "padding-bottom")

	content, err := n.ctx.renderJoin(n.children, " ", false)
	if err != nil {
		return "", err
	}
	return block("<td"+classAttr(effective.ClassList())+">", content, "</td>"), nil
}

func (n *tableCell) Text() string {
	return n.joinText(n.children, " | ", false)
}
