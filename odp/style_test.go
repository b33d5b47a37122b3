package odp

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomdx/layout"
	"tomdx/styles"
)

func styleElement(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc, err := readXML([]byte(`<office:styles`+namespaces+`>`+xml+`</office:styles>`), "test")
	require.NoError(t, err)
	el := doc.Root().ChildElements()
	require.NotEmpty(t, el)
	return el[0]
}

func testContext(t *testing.T, opts Options) *docContext {
	t.Helper()
	log := testLogger(t)
	return &docContext{
		log:        log,
		styles:     styles.New(log),
		page:       layout.Dimensions{Width: 28, Height: 15.75},
		opts:       opts,
		fillImages: map[string]string{"Sky": "Pictures/sky.jpg"},
	}
}

func TestGraphicProperties(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "graphic fill and stroke",
			xml: `<style:style style:family="graphic"><style:graphic-properties draw:fill-color="#729fcf"` +
				` draw:opacity="50%" svg:stroke-color="#3465a4" svg:stroke-width="0.035cm"/></style:style>`,
			want: "fill: #729fcf; fill-opacity: 50%; stroke: #3465a4; stroke-width: 0.0350;",
		},
		{
			name: "cell background with opacity",
			xml:  `<style:style style:family="table-cell"><style:graphic-properties draw:fill-color="#ff0000" draw:opacity="40%"/></style:style>`,
			want: "background-color: rgb(from #ff0000 r g b / 40%);",
		},
		{
			name: "no fill",
			xml:  `<style:style style:family="presentation"><style:graphic-properties draw:fill="none"/></style:style>`,
			want: "fill: none; background-color: transparent;",
		},
		{
			name: "vertical alignment",
			xml:  `<style:style style:family="presentation"><style:graphic-properties draw:textarea-vertical-align="bottom"/></style:style>`,
			want: "display: flex; flex-direction: column; justify-content: end;",
		},
		{
			name: "zero border is ignored",
			xml:  `<style:style style:family="presentation"><style:graphic-properties svg:stroke-width="0cm" svg:stroke-color="#000000"/></style:style>`,
			want: "border-color: #000000;",
		},
		{
			name: "padding",
			xml:  `<style:style style:family="graphic"><style:graphic-properties fo:padding-left="0.28cm" fo:padding-top="0.1575cm"/></style:style>`,
			want: "padding-left: 1.0%; padding-top: 1.0%;",
		},
		{
			name: "shadow",
			xml: `<style:style style:family="graphic"><style:graphic-properties draw:shadow="visible" draw:shadow-offset-x="0.2cm"` +
				` draw:shadow-offset-y="0.1cm" draw:shadow-color="#808080" draw:shadow-opacity="50%"/></style:style>`,
			want: "text-shadow: 8px 4px rgba(128, 128, 128, 0.5);",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext(t, Options{})
			props := c.styleProperties(styleElement(t, tt.xml))
			assert.Equal(t, tt.want, props.String())
			assert.NoError(t, c.buildErr)
		})
	}
}

func TestMalformedPadding(t *testing.T) {
	el := `<style:style style:family="graphic"><style:graphic-properties fo:padding-left="4pt" draw:fill-color="#000000"/></style:style>`

	c := testContext(t, Options{})
	props := c.styleProperties(styleElement(t, el))
	assert.Equal(t, "fill: #000000;", props.String())
	assert.ErrorIs(t, c.buildErr, layout.ErrMalformedLength)

	c = testContext(t, Options{Placeholders: true})
	c.styleProperties(styleElement(t, el))
	assert.NoError(t, c.buildErr)
	assert.ErrorIs(t, c.errs, layout.ErrMalformedLength)
}

func TestParagraphAndTextProperties(t *testing.T) {
	c := testContext(t, Options{})
	props := c.styleProperties(styleElement(t, `<style:style style:family="paragraph">`+
		`<style:paragraph-properties fo:line-height="100%" fo:margin-top="0cm" fo:margin-bottom="0.2cm" fo:text-align="start" style:writing-mode="tb-rl"/>`+
		`<style:text-properties fo:color="#333333" fo:font-weight="normal" style:font-name="DejaVu Serif Italic"`+
		` style:text-line-through-type="single" style:text-line-through-style="long-dash"/>`+
		`</style:style>`))

	assert.Equal(t, "1.2", props.Value("line-height"))
	assert.Equal(t, "", props.Value("margin-top"))
	assert.Equal(t, "0.2cm", props.Value("margin-bottom"))
	assert.Equal(t, "", props.Value("text-align"))
	assert.Equal(t, "tb-rl", props.Value("writing-mode"))
	assert.Equal(t, "#333333", props.Value("color"))
	assert.Equal(t, "", props.Value("font-weight"))
	assert.Equal(t, "Georgia, 'Times New Roman', Times, serif", props.Value("font-family"))
	assert.Equal(t, "italic", props.Value("font-style"))
	assert.Equal(t, "line-through", props.Value("text-decoration"))
	assert.Equal(t, "dashed", props.Value("text-decoration-style"))
}

func TestDrawingPageProperties(t *testing.T) {
	c := testContext(t, Options{ImageBase: "/img/talk"})
	props := c.styleProperties(styleElement(t, `<style:style style:family="drawing-page">`+
		`<style:drawing-page-properties draw:fill="bitmap" draw:fill-image-name="Sky"/></style:style>`))

	assert.Equal(t, "url('/img/talk/sky.jpg')", props.Value("background-image"))
	assert.Equal(t, "no-repeat", props.Value("background-repeat"))
	assert.Equal(t, "cover", props.Value("background-size"))

	props = c.styleProperties(styleElement(t, `<style:style style:family="drawing-page">`+
		`<style:drawing-page-properties draw:fill-image-name="Unknown" draw:fill-color="#000000"/></style:style>`))
	assert.Equal(t, "background-color: #000000;", props.String())
}

func TestInferPageSize(t *testing.T) {
	read := func(xml string) *etree.Document {
		doc, err := readXML([]byte(xml), "test")
		require.NoError(t, err)
		return doc
	}
	layouts := `<office:document-styles` + namespaces + `><office:automatic-styles>` +
		`<style:page-layout style:name="PM1"><style:page-layout-properties fo:page-width="25.4cm" fo:page-height="19.05cm"/></style:page-layout>` +
		`<style:page-layout style:name="PM2"><style:page-layout-properties fo:page-width="28cm" fo:page-height="15.75cm"/></style:page-layout>` +
		`</office:automatic-styles><office:master-styles>` +
		`<style:master-page style:name="Old" style:page-layout-name="PM1"/>` +
		`<style:master-page style:name="Wide" style:page-layout-name="PM2"/>` +
		`</office:master-styles></office:document-styles>`

	t.Run("most used master", func(t *testing.T) {
		content := read(`<office:document-content` + namespaces + `><office:body><office:presentation>` +
			`<draw:page draw:master-page-name="Old"/><draw:page draw:master-page-name="Wide"/><draw:page draw:master-page-name="Wide"/>` +
			`</office:presentation></office:body></office:document-content>`)
		d, ok := inferPageSize(content, read(layouts))
		assert.True(t, ok)
		assert.Equal(t, layout.Dimensions{Width: 28, Height: 15.75}, d)
	})

	t.Run("first page layout", func(t *testing.T) {
		content := read(`<office:document-content` + namespaces + `><office:body><office:presentation>` +
			`<draw:page draw:master-page-name="Missing"/></office:presentation></office:body></office:document-content>`)
		d, ok := inferPageSize(content, read(layouts))
		assert.True(t, ok)
		assert.Equal(t, layout.Dimensions{Width: 25.4, Height: 19.05}, d)
	})

	t.Run("largest frame", func(t *testing.T) {
		content := read(`<office:document-content` + namespaces + `><office:body><office:presentation><draw:page>` +
			`<draw:frame svg:width="10cm" svg:height="2cm"/><draw:frame svg:width="4cm" svg:height="12cm"/><draw:frame svg:width="50pt"/>` +
			`</draw:page></office:presentation></office:body></office:document-content>`)
		d, ok := inferPageSize(content, read(`<office:document-styles`+namespaces+`/>`))
		assert.True(t, ok)
		assert.Equal(t, layout.Dimensions{Width: 10, Height: 12}, d)
	})

	t.Run("nothing", func(t *testing.T) {
		content := read(`<office:document-content` + namespaces + `/>`)
		_, ok := inferPageSize(content, read(`<office:document-styles`+namespaces+`/>`))
		assert.False(t, ok)
	})
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "ruby", detectLanguage("class Greeter\n  attr_reader :name\nend"))
	assert.Equal(t, "ruby", detectLanguage("user = User.new(name: 'x')\nuser.fetch(:id)"))
	assert.Equal(t, "", detectLanguage("Just a sentence about classes."))
	assert.Equal(t, "", detectLanguage(""))
}
