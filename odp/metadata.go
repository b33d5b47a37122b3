package odp

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"
)

// Metadata is presentation description taken from meta.xml.
type Metadata struct {
	Title       string
	Description string
	Keywords    []string
	// Date is the presentation date declared by the author, zero if absent.
	Date time.Time
	// Modified is the document date maintained by the editor.
	Modified time.Time

	// values keeps front matter values in the order of appearance
	values []metaValue
}

// metaValue holds string, []string or nested []metaValue.
type metaValue struct {
	key   string
	value any
}

func setValue(values *[]metaValue, key string, value any) {
	for i := range *values {
		if (*values)[i].key == key {
			(*values)[i].value = value
			return
		}
	}
	*values = append(*values, metaValue{key: key, value: value})
}

func getValue(values []metaValue, key string) (any, bool) {
	for _, v := range values {
		if v.key == key {
			return v.value, true
		}
	}
	return nil, false
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

func parseDate(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var (
	nonNameChars = regexp.MustCompile(`[^a-z0-9_]+`)
	spaces       = regexp.MustCompile(`\s+`)
	namespaced   = regexp.MustCompile(`^(event|company)_(.+)$`)
)

// ParseMetadata reads presentation description from meta.xml content.
func ParseMetadata(data []byte) (*Metadata, error) {
	doc, err := readXML(data, "meta.xml")
	if err != nil {
		return nil, err
	}
	m := &Metadata{}
	walkMeta(doc.Root(), m)
	return m, nil
}

func walkMeta(el *etree.Element, m *Metadata) {
	for _, child := range el.ChildElements() {
		text := strings.TrimSpace(textContent(child))
		switch child.FullTag() {
		case "dc:title":
			if text != "" {
				m.Title = text
				setValue(&m.values, "title", text)
			}
		case "dc:description":
			if text != "" {
				m.Description = text
				setValue(&m.values, "description", text)
			}
		case "dc:date":
			if t, ok := parseDate(text); ok {
				m.Modified = t
			}
		case "meta:keyword":
			if text != "" {
				m.addKeywords(text)
			}
		case "meta:user-defined":
			m.userDefined(child.SelectAttrValue("meta:name", ""), text)
		default:
			walkMeta(child, m)
		}
	}
}

func (m *Metadata) addKeywords(words ...string) {
	m.Keywords = append(m.Keywords, words...)
	setValue(&m.values, "keywords", m.Keywords)
}

func (m *Metadata) userDefined(name, value string) {
	if name == "" || value == "" {
		return
	}
	key := spaces.ReplaceAllString(nonNameChars.ReplaceAllString(strings.ToLower(name), " "), "_")

	switch key {
	case "keywords", "tags":
		var words []string
		for w := range strings.SplitSeq(value, ", ") {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
		if len(words) > 0 {
			m.addKeywords(words...)
		}
	case "date", "presentation_date":
		if t, ok := parseDate(value); ok {
			m.Date = t
			return
		}
		setValue(&m.values, key, value)
	default:
		if match := namespaced.FindStringSubmatch(key); match != nil {
			var ns []metaValue
			if v, ok := getValue(m.values, match[1]); ok {
				ns, _ = v.([]metaValue)
			}
			setValue(&ns, match[2], value)
			setValue(&m.values, match[1], ns)
			return
		}
		setValue(&m.values, key, value)
	}
}

// PresentationDate returns declared presentation date falling back to the
// document date.
func (m *Metadata) PresentationDate() (time.Time, bool) {
	if !m.Date.IsZero() {
		return m.Date, true
	}
	return m.Modified, !m.Modified.IsZero()
}

// Validate checks that title and date required to name the output are
// present.
func (m *Metadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrMissingTitle
	}
	if _, ok := m.PresentationDate(); !ok {
		return ErrMissingDate
	}
	return nil
}

// FrontMatter renders metadata as YAML front matter block. Known keys always
// come first, date is never included.
func (m *Metadata) FrontMatter() (string, error) {
	values := []metaValue{
		{key: "title", value: ""},
		{key: "subtitle", value: ""},
		{key: "description", value: ""},
		{key: "company", value: []metaValue{{"name", ""}, {"position", ""}}},
		{key: "event", value: []metaValue{{"name", ""}, {"url", ""}}},
		{key: "keywords", value: []string{}},
	}
	for _, v := range m.values {
		if v.key == "date" {
			continue
		}
		if s, ok := v.value.(string); ok && strings.Contains(s, `\n`) {
			lines := strings.Split(s, `\n`)
			for i := range lines {
				lines[i] = strings.TrimRight(lines[i], " \t")
			}
			v.value = strings.Join(lines, "\n")
		}
		setValue(&values, v.key, v.value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(values)); err != nil {
		return "", fmt.Errorf("unable to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("unable to encode front matter: %w", err)
	}
	return "---\n" + buf.String() + "---", nil
}

func yamlNode(value any) *yaml.Node {
	switch v := value.(type) {
	case []metaValue:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range v {
			n.Content = append(n.Content, yamlNode(e.key), yamlNode(e.value))
		}
		return n
	case []string:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		if len(v) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, s := range v {
			n.Content = append(n.Content, yamlNode(s))
		}
		return n
	case string:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
		if strings.Contains(v, "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(value)}
}
