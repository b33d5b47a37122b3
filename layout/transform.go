package layout

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformedTransform is returned for transform attributes which could not
// be understood.
var ErrMalformedTransform = errors.New("malformed transform")

var transformRe = regexp.MustCompile(`(\w+)\s*\(([^)]+)\)`)

// ComposeTransform applies draw:transform attribute to positioning. Functions
// are processed in reverse order, translations move the box while the rest
// becomes CSS transform anchored at top left corner.
func ComposeTransform(attr string, page Dimensions, pos *Positioning) error {
	if pos == nil || strings.TrimSpace(attr) == "" {
		return nil
	}

	matches := transformRe.FindAllStringSubmatch(attr, -1)
	slices.Reverse(matches)

	var transforms []string
	for _, m := range matches {
		name := strings.ToLower(m[1])
		args := strings.FieldsFunc(m[2], func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(args) == 0 {
			return fmt.Errorf("%w: %s without arguments", ErrMalformedTransform, m[1])
		}

		switch name {
		case "translate":
			left, err := LengthToPercent(args[0], page.Width)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrMalformedTransform, err)
			}
			if left != "" {
				pos.Left = left
			}
			if len(args) > 1 {
				top, err := LengthToPercent(args[1], page.Height)
				if err != nil {
					return fmt.Errorf("%w: %w", ErrMalformedTransform, err)
				}
				if top != "" {
					pos.Top = top
				}
			}
		case "rotate":
			angle, err := parseAngle(args[0])
			if err != nil {
				return err
			}
			if math.Abs(angle) > 1e-9 {
				transforms = append(transforms, "rotate("+formatNumber(-angle)+"rad)")
			}
		case "scale":
			sx, err := parseAngle(args[0])
			if err != nil {
				return err
			}
			sy := sx
			if len(args) > 1 {
				if sy, err = parseAngle(args[1]); err != nil {
					return err
				}
			}
			transforms = append(transforms, "scale("+formatNumber(sx)+", "+formatNumber(sy)+")")
		case "skewx", "skewy":
			angle, err := parseAngle(args[0])
			if err != nil {
				return err
			}
			if math.Abs(angle) >= 1e-2 {
				fn := "skewX"
				if name == "skewy" {
					fn = "skewY"
				}
				transforms = append(transforms, fn+"("+formatNumber(angle)+"rad)")
			}
		default:
			return fmt.Errorf("%w: unknown function %q", ErrMalformedTransform, m[1])
		}
	}

	if len(transforms) > 0 {
		pos.Transform = strings.Join(transforms, " ")
		pos.TransformOrigin = "top left"
	}
	return nil
}

func parseAngle(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q", ErrMalformedTransform, s)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
