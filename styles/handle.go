package styles

import (
	"slices"
	"strings"
)

// Handle is a lazy reference to a style in the table. It is resolved into
// class names only when rendered.
type Handle struct {
	table   *Table
	name    string
	without []string
}

// Name returns referenced style name.
func (h *Handle) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

// ClassList returns space separated class names for the referenced style.
func (h *Handle) ClassList() string {
	return strings.Join(h.classes(), " ")
}

// String is the same as ClassList so handle could be used directly in
// formatted output.
func (h *Handle) String() string {
	return h.ClassList()
}

// Empty reports whether handle resolves to no classes.
func (h *Handle) Empty() bool {
	return len(h.classes()) == 0
}

// Without returns derived handle which omits classes produced by any of the
// named properties. Shared style is not modified.
func (h *Handle) Without(props ...string) *Handle {
	if h == nil {
		return nil
	}
	return &Handle{
		table:   h.table,
		name:    h.name,
		without: append(slices.Clone(h.without), props...),
	}
}

func (h *Handle) classes() []string {
	if h == nil || h.table == nil || h.name == "" {
		return nil
	}
	classes := h.table.resolve(h.name)
	if len(h.without) == 0 {
		return classes
	}
	out := make([]string, 0, len(classes))
	for _, class := range classes {
		if slices.Contains(h.without, h.table.propertyOf(class)) {
			continue
		}
		out = append(out, class)
	}
	return out
}
