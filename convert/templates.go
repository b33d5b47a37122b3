package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"tomdx/config"
	"tomdx/odp"
)

// Values is a struct that holds variables we make available for template
// expansion.
type Values struct {
	Context    string
	Title      string
	TitleSlug  string
	Date       string
	Keywords   []string
	SourceName string
	SourceSlug string
}

func buildValues(name config.TemplateFieldName, meta *odp.Metadata, src string) Values {
	var date string
	if d, ok := meta.PresentationDate(); ok {
		date = d.Format("2006-01-02")
	}
	source := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return Values{
		Context:    string(name),
		Title:      meta.Title,
		TitleSlug:  slug.Make(meta.Title),
		Date:       date,
		Keywords:   meta.Keywords,
		SourceName: source,
		SourceSlug: slug.Make(source),
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
