package layout

// Candidate describes element being classified together with what is known
// about its siblings on the page.
type Candidate struct {
	Box         Box
	Positioning *Positioning
	// Sole is true when element is the only contentful child of its
	// parent, speaker notes are not counted.
	Sole bool
}

// Centering returns "centered" for an element placed in the middle part of
// the page and "centered blank" when it also spans nearly whole width or
// height.
func Centering(c Candidate) string {
	if !c.Sole {
		return ""
	}
	x, y, ok := c.Positioning.Center()
	if !ok || x <= 20 || x >= 80 || y <= 20 || y >= 80 {
		return ""
	}
	width, _ := parsePercent(c.Positioning.Width)
	height, _ := parsePercent(c.Positioning.Height)
	if width > 95 || height > 95 {
		return "centered blank"
	}
	return "centered"
}

// NeedsPositioning reports whether element should be rendered with explicit
// absolute placement.
func NeedsPositioning(c Candidate) bool {
	return c.Positioning != nil && !c.Box.TitleRole() && Centering(c) == ""
}

// Classify returns layout class names for element. Without heuristics no
// classes are assigned.
func Classify(c Candidate, heuristics bool) string {
	if !heuristics {
		return ""
	}
	if NeedsPositioning(c) {
		return "blank"
	}
	return Centering(c)
}
