package odp

import (
	"regexp"
	"strings"
)

// minLanguageScore is the number of distinct patterns text has to match
// before it is considered source code.
const minLanguageScore = 2

type language struct {
	name     string
	patterns []*regexp.Regexp
}

var languages = []language{
	{
		name: "ruby",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?m)\b(def|class|module)\s+\w+`),
			regexp.MustCompile(`(?m)\b(render|attr_reader|attr_writer|attr_accessor)\s+:\w+`),
			regexp.MustCompile(`(?m)\b(elsif|unless|ensure|rescue|yield|rescue_from)\b`),
			regexp.MustCompile(`(?m)\b(Rails)\.`),
			regexp.MustCompile(`(?m)\.(new|fetch)\b`),
			regexp.MustCompile(`(?m)^\s*end\s*$`),
			regexp.MustCompile(`(?m)[^w]:\w+`),
			regexp.MustCompile(`(?m)\b\w+\([^)]+\w+:`),
		},
	},
}

// detectLanguage returns name of the best scoring language, empty when
// nothing scores high enough.
func detectLanguage(text string) string {
	var (
		best      string
		bestScore int
	)
	for _, lang := range languages {
		score := 0
		for _, re := range lang.patterns {
			if re.MatchString(text) {
				score++
			}
		}
		if score >= minLanguageScore && score > bestScore {
			best, bestScore = lang.name, score
		}
	}
	return best
}

// monospace reports whether any child or grandchild of e uses monospaced
// font.
func (c *docContext) monospace(e *element) bool {
	uses := func(n Node) bool {
		name := n.Attr("text:style-name")
		return name != "" && strings.Contains(c.styles.Properties(name).Value("font-family"), "monospace")
	}
	for _, child := range e.children {
		if uses(child) {
			return true
		}
		for _, grandchild := range child.Children() {
			if uses(grandchild) {
				return true
			}
		}
	}
	return false
}

// codeSnippet renders text of e as fenced code block if it is set in
// monospace font and looks like source code. Works with heuristics only.
func (c *docContext) codeSnippet(e *element, text string) (string, bool) {
	if !c.opts.Heuristics || !c.monospace(e) {
		return "", false
	}
	text = strings.TrimSpace(text)
	lang := detectLanguage(text)
	if lang == "" {
		return "", false
	}
	return "\n```" + lang + "\n" + text + "\n```\n", true
}
