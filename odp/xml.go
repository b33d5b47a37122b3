package odp

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// readXML parses one of the package XML parts.
func readXML(data []byte, part string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", part, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%s has no root element", part)
	}
	return doc, nil
}

// textContent concatenates all character data under el.
func textContent(el *etree.Element) string {
	var text strings.Builder
	for _, node := range el.Child {
		switch token := node.(type) {
		case *etree.CharData:
			text.WriteString(token.Data)
		case *etree.Element:
			text.WriteString(textContent(token))
		}
	}
	return text.String()
}

var leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// leadingFloat parses number at the start of s ignoring whatever follows,
// so "1.5cm" gives 1.5.
func leadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// nonZero reports whether s does not start with a zero number. Values which
// are not numbers at all are considered non zero.
func nonZero(s string) bool {
	v, ok := leadingFloat(s)
	return !ok || v != 0
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
