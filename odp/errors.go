package odp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingTitle is returned when document metadata carries no title.
	ErrMissingTitle = errors.New("no presentation title found in metadata")
	// ErrMissingDate is returned when document metadata carries no usable date.
	ErrMissingDate = errors.New("no presentation date found in metadata")
)

// ElementError names document element which could not be rendered.
type ElementError struct {
	Tag   string
	Ident string
	Err   error
}

func (e *ElementError) Error() string {
	if e.Ident == "" {
		return fmt.Sprintf("%s: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Tag, e.Ident, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// placeholder renders error as MDX comment which stands in for the failed
// element.
func placeholder(err error) string {
	msg := strings.ReplaceAll(err.Error(), "*/", "* /")
	return "{/* tomdx: " + msg + " */}"
}
