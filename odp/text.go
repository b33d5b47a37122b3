package odp

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"tomdx/styles"
)

var (
	entityDecoder = strings.NewReplacer("&quot;", `"`, "&lt;", "<", "&gt;", ">", "&amp;", "&")
	mdxEscaper    = strings.NewReplacer("{", `\{`, "<", `\<`)
)

// plainText is character data between elements.
type plainText struct {
	text string
}

func newPlainText(data string) *plainText {
	return &plainText{text: norm.NFC.String(entityDecoder.Replace(data))}
}

func (n *plainText) Tag() string          { return "" }
func (n *plainText) Attr(string) string   { return "" }
func (n *plainText) Children() []Node     { return nil }
func (n *plainText) Empty() bool          { return len(n.text) == 0 }
func (n *plainText) MDX() (string, error) { return mdxEscaper.Replace(n.text), nil }
func (n *plainText) Text() string         { return n.text }

type paragraph struct {
	element
	style *styles.Handle
}

func newParagraph(base element) Node {
	n := &paragraph{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("text:style-name"))
	return n
}

// Empty is false, empty paragraphs keep vertical spacing.
func (n *paragraph) Empty() bool {
	return false
}

// merged joins neighbouring plain spans of the same style.
func (n *paragraph) merged() []Node {
	var out []Node
	for _, child := range n.contentful() {
		if len(out) > 0 {
			prev, ok1 := out[len(out)-1].(*span)
			cur, ok2 := child.(*span)
			if ok1 && ok2 && prev.style.Name() == cur.style.Name() {
				if a, ok := prev.plain(); ok {
					if b, ok := cur.plain(); ok {
						joined := *prev
						joined.children = []Node{&plainText{text: a.text + b.text}}
						out[len(out)-1] = &joined
						continue
					}
				}
			}
		}
		out = append(out, child)
	}
	return out
}

func (n *paragraph) MDX() (string, error) {
	text, err := n.ctx.renderJoin(n.merged(), "", false)
	if err != nil {
		return "", err
	}
	svg := n.sc.svg()
	if _, ok := n.parent.(*tableCell); ok && !svg {
		return text, nil
	}
	if svg {
		return block(`<text x="50%" y="50%" textAnchor="middle" dominantBaseline="middle"`+classAttr(n.style.ClassList())+">", text, "</text>"), nil
	}
	return block("<p"+classAttr(n.style.ClassList())+">", text, "</p>"), nil
}

func (n *paragraph) Text() string {
	return n.joinText(n.contentful(), "", false) + "\n"
}

type span struct {
	element
	style *styles.Handle
}

func newSpan(base element) Node {
	n := &span{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("text:style-name"))
	return n
}

// plain returns span text when it is the only content.
func (n *span) plain() (*plainText, bool) {
	child, ok := n.sole()
	if !ok {
		return nil, false
	}
	text, ok := child.(*plainText)
	return text, ok
}

func (n *span) MDX() (string, error) {
	content, err := n.ctx.renderJoin(n.contentful(), "", false)
	if err != nil {
		return "", err
	}
	if n.style.Empty() {
		return content, nil
	}
	tag := "span"
	if n.sc.svg() {
		tag = "tspan"
	}
	return "<" + tag + classAttr(n.style.ClassList()) + ">" + content + "</" + tag + ">", nil
}

// Text marks highlighted plain spans with underscores.
func (n *span) Text() string {
	content := n.joinText(n.contentful(), "", false)
	if _, ok := n.plain(); ok && n.ctx.styles.Properties(n.Attr("text:style-name")).Value("background-color") != "" {
		return "___" + content + "___"
	}
	return content
}

type link struct {
	element
	href  string
	style *styles.Handle
}

func newLink(base element) Node {
	n := &link{element: base}
	n.buildChildren(n)
	n.href = n.Attr("xlink:href")
	n.style = n.ctx.styles.Use(n.Attr("text:style-name"))
	return n
}

func (n *link) Empty() bool {
	return n.href == ""
}

func (n *link) MDX() (string, error) {
	alt, err := n.ctx.renderJoin(n.contentful(), "", false)
	if err != nil {
		return "", err
	}
	return `<a href="` + n.href + `"` + classAttr(n.style.ClassList()) + ">" + alt + "</a>", nil
}

func (n *link) Text() string {
	return "[" + n.joinText(n.contentful(), "", false) + "](" + n.href + ")"
}

type list struct {
	element
	style *styles.Handle
}

func newList(base element) Node {
	n := &list{element: base}
	n.buildChildren(n)
	n.style = n.ctx.styles.Use(n.Attr("text:style-name"))
	return n
}

func (n *list) MDX() (string, error) {
	content, err := n.ctx.renderJoin(n.contentful(), "", false)
	if err != nil {
		return "", err
	}
	return block("<ul"+classAttr(n.style.ClassList())+">", content, "</ul>"), nil
}

func (n *list) Text() string {
	return n.joinText(n.contentful(), "\n", false)
}

type listItem struct {
	element
}

func newListItem(base element) Node {
	n := &listItem{element: base}
	n.buildChildren(n)
	return n
}

func (n *listItem) MDX() (string, error) {
	content, err := n.ctx.renderJoin(n.contentful(), "", false)
	if err != nil {
		return "", err
	}
	return "<li>" + content + "</li>", nil
}

func (n *listItem) Text() string {
	parts := make([]string, 0, len(n.children))
	for _, child := range n.contentful() {
		parts = append(parts, strings.TrimSuffix(child.Text(), "\n"))
	}
	return "- " + strings.Join(parts, " ")
}

type lineBreak struct {
	element
}

func newLineBreak(base element) Node {
	return &lineBreak{element: base}
}

func (n *lineBreak) Empty() bool          { return false }
func (n *lineBreak) MDX() (string, error) { return "<br />", nil }
func (n *lineBreak) Text() string         { return "\n" }

// space is a run of significant spaces or a tab.
type space struct {
	element
	text string
}

func newSpace(base element) Node {
	count, err := strconv.Atoi(base.el.SelectAttrValue("text:c", "1"))
	if err != nil || count < 0 {
		count = 1
	}
	return &space{element: base, text: strings.Repeat(" ", count)}
}

func newTab(base element) Node {
	return &space{element: base, text: "\t"}
}

func (n *space) Empty() bool          { return false }
func (n *space) MDX() (string, error) { return n.text, nil }
func (n *space) Text() string         { return n.text }

// notes are speaker notes attached to a slide.
type notes struct {
	element
}

func newNotes(base element) Node {
	n := &notes{element: base}
	n.buildChildren(n)
	return n
}

func (n *notes) MDX() (string, error) {
	return "<SpeakerNotes>\n  " + n.Text() + "\n</SpeakerNotes>", nil
}

func (n *notes) Text() string {
	return n.joinText(n.contentful(), "\n", false)
}
