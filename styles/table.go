// Package styles keeps declared document styles and turns the ones actually
// referenced by rendered elements into a small set of utility classes.
package styles

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Class is a generated utility class and the single declaration it stands for.
type Class struct {
	Name        string
	Declaration string
}

// Table owns all style definitions of a single document.
//
// Class lists are computed per style name on first read through a Handle and
// memoized. Since a Handle can only be obtained through Use, usage of a name is
// always registered before its classes are resolved. Define after that point
// replaces the raw properties but does not alter class lists already handed
// out. Declaration to class mappings are append-only, so identical
// declarations always produce identical class names.
type Table struct {
	log *zap.Logger

	defs map[string]Properties

	handles map[string]*Handle
	used    []string // usage order

	canonical  map[string]string   // lower cased declaration -> class
	generated  map[string]string   // declaration -> generated class
	minted     []Class             // generated classes in mint order
	classProps map[string]string   // class -> property name, for Without
	resolved   map[string][]string // style name -> class list
	counter    int
}

// New creates empty style table with the default canonical class names.
func New(log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Table{
		log:        log.Named("styles"),
		defs:       make(map[string]Properties),
		handles:    make(map[string]*Handle),
		canonical:  make(map[string]string, len(canonicalClasses)),
		generated:  make(map[string]string),
		classProps: make(map[string]string),
		resolved:   make(map[string][]string),
	}
	for decl, class := range canonicalClasses {
		t.addCanonical(decl, class)
	}
	return t
}

// AddCanonical maps declaration ("property: value;") to a fixed class name,
// replacing default mapping if one exists.
func (t *Table) AddCanonical(declaration, class string) error {
	declaration = strings.TrimSpace(declaration)
	if class == "" || !strings.HasSuffix(declaration, ";") || !strings.Contains(declaration, ":") {
		return fmt.Errorf("malformed canonical class mapping %q -> %q", declaration, class)
	}
	for _, c := range t.minted {
		if c.Name == class {
			return fmt.Errorf("canonical class %q is already generated for %q", class, c.Declaration)
		}
	}
	t.addCanonical(declaration, class)
	return nil
}

func (t *Table) addCanonical(declaration, class string) {
	t.canonical[strings.ToLower(declaration)] = class
	name, _, _ := strings.Cut(declaration, ":")
	t.classProps[class] = strings.TrimSpace(name)
}

// Define registers or replaces style properties. There is no merging of
// properties between calls for the same name.
func (t *Table) Define(name string, props Properties) {
	if name == "" {
		return
	}
	t.defs[name] = props.Clone()
}

// Merge defines all styles from defs, later definitions win by name.
func (t *Table) Merge(defs map[string]Properties) {
	for name, props := range defs {
		t.Define(name, props)
	}
}

// Properties returns raw declared properties, bypassing class optimization.
func (t *Table) Properties(name string) Properties {
	return t.defs[name]
}

// Names returns names of all defined styles in no particular order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.defs))
	for name := range t.defs {
		out = append(out, name)
	}
	return out
}

// Len returns number of defined styles.
func (t *Table) Len() int {
	return len(t.defs)
}

// Use marks style as used and returns handle to it. Empty name produces a
// handle which always resolves to nothing.
func (t *Table) Use(name string) *Handle {
	if h, ok := t.handles[name]; ok {
		return h
	}
	h := &Handle{table: t, name: name}
	t.handles[name] = h
	if name != "" {
		t.used = append(t.used, name)
	}
	return h
}

// Used returns names of used styles in the order of first use.
func (t *Table) Used() []string {
	out := make([]string, len(t.used))
	copy(out, t.used)
	return out
}

// Generated returns generated classes in the order they were minted.
func (t *Table) Generated() []Class {
	out := make([]Class, len(t.minted))
	copy(out, t.minted)
	return out
}

// Stylesheet resolves every used style and renders generated classes as an
// MDX style element. Canonical classes are expected to be provided by the
// site and are not emitted. Returns empty string when nothing was generated.
func (t *Table) Stylesheet() string {
	for _, name := range t.used {
		t.resolve(name)
	}
	if len(t.minted) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<style>{`\n")
	for _, c := range t.minted {
		sb.WriteString("  .")
		sb.WriteString(c.Name)
		sb.WriteString(" { ")
		sb.WriteString(c.Declaration)
		sb.WriteString(" }\n")
	}
	sb.WriteString("`}</style>")
	return sb.String()
}

func (t *Table) resolve(name string) []string {
	if classes, ok := t.resolved[name]; ok {
		return classes
	}

	props := t.defs[name]
	classes := make([]string, 0, len(props))
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if strings.TrimSpace(p.Value) == "" {
			continue
		}
		class := t.classFor(p)
		if _, dup := seen[class]; dup {
			continue
		}
		seen[class] = struct{}{}
		classes = append(classes, class)
	}
	t.resolved[name] = classes
	return classes
}

func (t *Table) classFor(p Property) string {
	decl := p.Declaration()
	if class, ok := t.canonical[strings.ToLower(decl)]; ok {
		return class
	}
	if class, ok := t.generated[decl]; ok {
		return class
	}
	var class string
	for {
		t.counter++
		class = "c" + strconv.Itoa(t.counter)
		// names taken by canonical classes are never reused
		if _, taken := t.classProps[class]; !taken {
			break
		}
	}
	t.generated[decl] = class
	t.minted = append(t.minted, Class{Name: class, Declaration: decl})
	t.classProps[class] = p.Name
	t.log.Debug("Generated class", zap.String("class", class), zap.String("declaration", decl))
	return class
}

func (t *Table) propertyOf(class string) string {
	return t.classProps[class]
}
