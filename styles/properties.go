package styles

import "strings"

// Property is a single declared CSS property.
type Property struct {
	Name  string
	Value string
}

// Declaration returns property in "name: value;" form.
func (p Property) Declaration() string {
	return p.Name + ": " + p.Value + ";"
}

// Properties is an ordered set of declarations. Setting a property which is
// already present replaces its value in place, so the position of the first
// declaration is kept.
type Properties []Property

// Set adds or replaces property value.
func (p *Properties) Set(name, value string) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Name: name, Value: value})
}

// Get returns property value and whether property was declared at all.
func (p Properties) Get(name string) (string, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// Value returns property value or empty string.
func (p Properties) Value(name string) string {
	v, _ := p.Get(name)
	return v
}

// Merge sets every property of other on top of p.
func (p *Properties) Merge(other Properties) {
	for _, prop := range other {
		p.Set(prop.Name, prop.Value)
	}
}

// Clone returns independent copy.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	copy(out, p)
	return out
}

func (p Properties) String() string {
	parts := make([]string, 0, len(p))
	for _, prop := range p {
		parts = append(parts, prop.Declaration())
	}
	return strings.Join(parts, " ")
}
