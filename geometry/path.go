package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

const maxPathIterations = 1000

// Number of parameters each enhanced path command consumes.
var commandArity = map[string]int{
	"A": 8, "B": 8, "V": 8, "W": 8,
	"C": 6, "T": 6, "U": 6,
	"G": 4, "Q": 4,
	"L": 2, "M": 2, "X": 2, "Y": 2,
	"F": 0, "N": 0, "S": 0, "Z": 0,
}

type segment struct {
	command string
	// explicit is false for implicit repetition of previous command
	explicit bool
	params   []string
}

// SVGPath decodes shape enhanced path into SVG path data. Second value is
// false when shape has no path at all.
func (e *Evaluator) SVGPath() (string, bool, error) {
	if !e.shape.HasPath {
		return "", false, nil
	}

	parts := strings.FieldsFunc(e.shape.Path, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	var (
		segments   []segment
		current    string
		arity      int
		iterations int
	)
	for i := 0; i < len(parts); {
		if iterations >= maxPathIterations {
			e.log.Warn("Path is too long, ignoring the rest",
				zap.String("shape", e.shape.Ident), zap.Int("iterations", iterations), zap.Int("remaining", len(parts)-i))
			break
		}
		iterations++

		tok := parts[i]
		if n, ok := commandArity[tok]; ok {
			current, arity = tok, n
			segments = append(segments, segment{command: tok, explicit: true})
			i++
		} else if current == "" || arity == 0 {
			if isCommandLike(tok) {
				return "", true, fmt.Errorf("%w %q", ErrUnknownPathCommand, tok)
			}
			return "", true, fmt.Errorf("%w: parameter %q without preceding command", ErrUnknownPathCommand, tok)
		} else {
			segments = append(segments, segment{command: current})
		}

		seg := &segments[len(segments)-1]
		for range arity {
			if i >= len(parts) {
				return "", true, fmt.Errorf("%w: command %s expects %d parameters, path ended", ErrUnexpectedToken, current, arity)
			}
			if _, ok := commandArity[parts[i]]; ok {
				return "", true, fmt.Errorf("%w: command %s expects %d parameters, got %s", ErrUnexpectedToken, current, arity, parts[i])
			}
			v, err := e.parameter(parts[i])
			if err != nil {
				return "", true, err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return "", true, fmt.Errorf("%w: parameter %q of command %s evaluates to %v", ErrMalformedToken, parts[i], current, v)
			}
			seg.params = append(seg.params, formatCoordinate(v/1000))
			i++
		}
	}

	// authoring tools often end paths with redundant "Z N"
	if n := len(segments); n >= 2 && segments[n-1].command == "N" && segments[n-2].command == "Z" {
		segments = segments[:n-1]
	}

	out := make([]string, 0, len(segments)*3)
	for _, seg := range segments {
		if seg.explicit {
			switch seg.command {
			case "F", "S", "N":
			case "Z":
				out = append(out, "z")
			default:
				out = append(out, seg.command)
			}
		}
		out = append(out, seg.params...)
	}
	return strings.Join(out, " "), true, nil
}

// parameter evaluates single path parameter: number, formula or modifier
// reference.
func (e *Evaluator) parameter(tok string) (float64, error) {
	switch {
	case strings.HasPrefix(tok, "?"):
		return e.Formula(tok[1:])
	case strings.HasPrefix(tok, "$"):
		n, err := strconv.Atoi(tok[1:])
		if err != nil {
			return 0, fmt.Errorf("%w: modifier reference %q", ErrMalformedToken, tok)
		}
		return e.Modifier(n)
	case isCommandLike(tok):
		return 0, fmt.Errorf("%w %q", ErrUnknownPathCommand, tok)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: path parameter %q", ErrMalformedToken, tok)
	}
	return v, nil
}

func isCommandLike(tok string) bool {
	return len(tok) == 1 && isLetter(tok[0])
}

func formatCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
