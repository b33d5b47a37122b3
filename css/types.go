package css

import (
	"strings"
)

// Declaration is a single "property: value" pair as written in the source.
type Declaration struct {
	Property string
	Value    string
}

// String returns declaration in the form used by the style table.
func (d Declaration) String() string {
	return d.Property + ": " + d.Value + ";"
}

// Rule is a ruleset with one or more selectors sharing declarations.
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// Stylesheet is the result of parsing, unsupported constructs are reported in
// Warnings.
type Stylesheet struct {
	Rules    []Rule
	Warnings []string
}

// ClassOverride maps literal declaration to class name.
type ClassOverride struct {
	Declaration string
	Class       string
}

// ClassOverrides returns overrides for every plain class selector whose rule
// has exactly one declaration. Order of appearance is kept.
func (s *Stylesheet) ClassOverrides() []ClassOverride {
	var out []ClassOverride
	for _, rule := range s.Rules {
		if len(rule.Declarations) != 1 {
			continue
		}
		for _, sel := range rule.Selectors {
			class, ok := plainClass(sel)
			if !ok {
				continue
			}
			out = append(out, ClassOverride{Declaration: rule.Declarations[0].String(), Class: class})
		}
	}
	return out
}

// plainClass accepts ".name" where name has no further selector syntax.
func plainClass(sel string) (string, bool) {
	if !strings.HasPrefix(sel, ".") || len(sel) == 1 {
		return "", false
	}
	name := sel[1:]
	if strings.ContainsAny(name, ".#:[> +~*") {
		return "", false
	}
	return name, true
}
