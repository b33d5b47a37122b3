// Package odp reads OpenDocument presentations and renders them as MDX.
//
// Documents are processed in two phases. Building the element tree registers
// every style reference with the style table, rendering then resolves class
// names, so the stylesheet produced at the end covers all of them.
package odp

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tomdx/layout"
	"tomdx/styles"
)

// Document is a parsed presentation.
type Document struct {
	Page   layout.Dimensions
	Styles *styles.Table

	root Node
	ctx  *docContext
}

// Parse builds element tree from content.xml and styles.xml of the package.
func Parse(content, stylesXML []byte, opts Options, log *zap.Logger) (*Document, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("odp")

	contentDoc, err := readXML(content, "content.xml")
	if err != nil {
		return nil, err
	}
	stylesDoc, err := readXML(stylesXML, "styles.xml")
	if err != nil {
		return nil, err
	}

	page, ok := inferPageSize(contentDoc, stylesDoc)
	if ok {
		log.Debug("Found page dimensions", zap.Float64("width", page.Width), zap.Float64("height", page.Height))
	} else {
		log.Warn("Unable to find page dimensions, positioning will be incomplete")
	}

	table := styles.New(log)
	for _, o := range opts.ClassOverrides {
		if err := table.AddCanonical(o.Declaration, o.Class); err != nil {
			log.Warn("Ignoring class override", zap.String("class", o.Class), zap.Error(err))
		}
	}

	ctx := &docContext{
		log:        log,
		styles:     table,
		page:       page,
		opts:       opts,
		fillImages: make(map[string]string),
	}
	ctx.collectFillImages(stylesDoc)
	ctx.collectFillImages(contentDoc)

	// common styles go first so automatic styles of the content win
	build(stylesDoc.Root(), ctx, scope{}, nil)
	root := build(contentDoc.Root(), ctx, scope{}, nil)
	if ctx.buildErr != nil {
		return nil, ctx.buildErr
	}
	if root == nil {
		return nil, fmt.Errorf("unexpected content.xml root element %q", contentDoc.Root().FullTag())
	}
	return &Document{Page: page, Styles: table, root: root, ctx: ctx}, nil
}

// MDX renders the whole document preceded by the generated stylesheet.
func (d *Document) MDX() (string, error) {
	body, err := d.ctx.render(d.root)
	if err != nil {
		return "", err
	}
	sheet := d.Styles.Stylesheet()
	if sheet == "" {
		return body, nil
	}
	return sheet + "\n" + body, nil
}

// Text renders the whole document as plain text.
func (d *Document) Text() string {
	return d.root.Text()
}

// Errors returns failures which were replaced with placeholders.
func (d *Document) Errors() []error {
	return multierr.Errors(d.ctx.errs)
}
