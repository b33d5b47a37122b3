package geometry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathOf(t *testing.T, shape Shape) (string, error) {
	t.Helper()
	shape.HasPath = true
	d, ok, err := newEvaluator(t, shape).SVGPath()
	require.True(t, ok)
	return d, err
}

func TestSVGPath(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  string
	}{
		{
			name:  "trailing close and no-fill are merged",
			shape: Shape{Path: "M 0 0 L 1000 1000 Z N"},
			want:  "M 0.00 0.00 L 1.00 1.00 z",
		},
		{
			name:  "implicit repetition",
			shape: Shape{Path: "M 0 0 L 10 10 20 20"},
			want:  "M 0.00 0.00 L 0.01 0.01 0.02 0.02",
		},
		{
			name:  "comma separated",
			shape: Shape{Path: "M 0,0 L 1500,2500 Z"},
			want:  "M 0.00 0.00 L 1.50 2.50 z",
		},
		{
			name:  "stroke and fill flags are dropped",
			shape: Shape{Path: "M 0 0 L 1000 0 F S N"},
			want:  "M 0.00 0.00 L 1.00 0.00",
		},
		{
			name: "formulas and modifiers",
			shape: Shape{
				Path:      "M ?f0 0 L $0 21600 Z",
				ViewBox:   ViewBox{Width: 21600, Height: 21600},
				Modifiers: "5400",
				Formulas:  map[string]string{"f0": "width/2"},
			},
			want: "M 10.80 0.00 L 5.40 21.60 z",
		},
		{
			name:  "negative zero",
			shape: Shape{Path: "M -0.001 0"},
			want:  "M 0.00 0.00",
		},
		{
			name:  "arc",
			shape: Shape{Path: "A 0 0 2000 2000 0 0 0 0"},
			want:  "A 0.00 0.00 2.00 2.00 0.00 0.00 0.00 0.00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := pathOf(t, tt.shape)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestSVGPathWithoutCommandSeparators(t *testing.T) {
	_, err := pathOf(t, Shape{Path: "M0,0L1500,2500Z"})
	// commands glued to numbers are not split
	assert.ErrorIs(t, err, ErrUnknownPathCommand)
}

func TestSVGPathAbsent(t *testing.T) {
	d, ok, err := newEvaluator(t, Shape{Path: "M 0 0"}).SVGPath()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, d)
}

func TestSVGPathErrors(t *testing.T) {
	tests := []struct {
		path string
		err  error
	}{
		{"M 0 0 K 1 1", ErrUnknownPathCommand},
		{"10 10", ErrUnknownPathCommand},
		{"Z 10", ErrUnknownPathCommand},
		{"M 0", ErrUnexpectedToken},
		{"M 0 L 1 1", ErrUnexpectedToken},
		{"M ?nope 0", ErrUnresolvedReference},
		{"M 1x 0", ErrMalformedToken},
		{"M $a 0", ErrMalformedToken},
	}
	for _, tt := range tests {
		_, err := pathOf(t, Shape{Path: tt.path})
		assert.ErrorIs(t, err, tt.err, tt.path)
	}
}

func TestSVGPathRejectsNonFiniteParameters(t *testing.T) {
	shape := Shape{
		Path:     "M ?f0 ?f1",
		Formulas: map[string]string{"f0": "1/0", "f1": "sqrt(-1)"},
	}
	d, err := pathOf(t, shape)
	require.ErrorIs(t, err, ErrMalformedToken)
	assert.Contains(t, err.Error(), "?f0")
	assert.Empty(t, d)
}

func TestSVGPathIterationCap(t *testing.T) {
	path := "M 0 0" + strings.Repeat(" L 0 0", 1500)
	d, err := pathOf(t, Shape{Path: path})
	require.NoError(t, err)
	assert.Equal(t, maxPathIterations-1, strings.Count(d, "L"))
}
