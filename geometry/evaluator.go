package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tomdx/layout"
)

// Evaluator computes formula values for a single shape element. Named formula
// results are cached for the lifetime of the evaluator, which must not be
// shared between elements.
type Evaluator struct {
	shape Shape
	log   *zap.Logger

	cache      map[string]float64
	inProgress map[string]bool

	modifiers       []float64
	modifiersParsed bool
}

// NewEvaluator creates evaluator for shape.
func NewEvaluator(shape Shape, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	if shape.ViewBox == (ViewBox{}) {
		shape.ViewBox = UnitBox
	}
	return &Evaluator{
		shape:      shape,
		log:        log.Named("geometry"),
		cache:      make(map[string]float64),
		inProgress: make(map[string]bool),
	}
}

// Evaluate computes value of a complete formula expression.
func (e *Evaluator) Evaluate(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{ev: e, tokens: tokens}
	v, err := p.additive()
	if err != nil {
		return 0, err
	}
	if p.i < len(p.tokens) {
		return 0, fmt.Errorf("%w: %s after end of expression %q", ErrUnexpectedToken, p.tokens[p.i], expr)
	}
	return v, nil
}

// Formula returns value of named formula declared on the shape.
func (e *Evaluator) Formula(name string) (float64, error) {
	if v, ok := e.cache[name]; ok {
		return v, nil
	}
	src, ok := e.shape.Formulas[name]
	if !ok {
		return 0, fmt.Errorf("%w ?%s", ErrUnresolvedReference, name)
	}
	if e.inProgress[name] {
		return 0, fmt.Errorf("%w through ?%s", ErrFormulaCycle, name)
	}
	e.inProgress[name] = true
	defer delete(e.inProgress, name)

	v, err := e.Evaluate(src)
	if err != nil {
		return 0, fmt.Errorf("formula ?%s: %w", name, err)
	}
	e.cache[name] = v
	return v, nil
}

// Modifier returns n-th modifier value, out of range indexes produce 0.
func (e *Evaluator) Modifier(n int) (float64, error) {
	if !e.modifiersParsed {
		for _, f := range strings.Fields(e.shape.Modifiers) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: modifier %q", ErrMalformedToken, f)
			}
			e.modifiers = append(e.modifiers, v)
		}
		e.modifiersParsed = true
	}
	if n < 0 || n >= len(e.modifiers) {
		return 0, nil
	}
	return e.modifiers[n], nil
}

func (e *Evaluator) identifier(name string) (float64, error) {
	vb := e.shape.ViewBox
	switch name {
	case "left":
		return vb.X, nil
	case "top":
		return vb.Y, nil
	case "right":
		return vb.X + vb.Width, nil
	case "bottom":
		return vb.Y + vb.Height, nil
	case "width":
		return vb.Width, nil
	case "height":
		return vb.Height, nil
	case "logwidth":
		return logicalSize(e.shape.Width)
	case "logheight":
		return logicalSize(e.shape.Height)
	case "xstretch":
		return optionalNumber(e.shape.StretchX)
	case "ystretch":
		return optionalNumber(e.shape.StretchY)
	case "hasstroke", "hasfill":
		return 0, nil
	case "pi":
		return math.Pi, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownIdentifier, name)
}

// logicalSize converts declared size into 1/1000 units, absent size is 0.
func logicalSize(length string) (float64, error) {
	if length == "" {
		return 0, nil
	}
	cm, err := layout.ParseLength(length)
	if err != nil {
		return 0, err
	}
	return cm * 1000, nil
}

func optionalNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q", ErrMalformedToken, s)
	}
	return v, nil
}

type function struct {
	arity int
	fn    func(args []float64) float64
}

var functions = map[string]function{
	"abs":   {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"sqrt":  {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"sin":   {1, func(a []float64) float64 { return math.Sin(a[0]) }},
	"cos":   {1, func(a []float64) float64 { return math.Cos(a[0]) }},
	"tan":   {1, func(a []float64) float64 { return math.Tan(a[0]) }},
	"atan":  {1, func(a []float64) float64 { return math.Atan(a[0]) }},
	"min":   {2, func(a []float64) float64 { return math.Min(a[0], a[1]) }},
	"max":   {2, func(a []float64) float64 { return math.Max(a[0], a[1]) }},
	"atan2": {2, func(a []float64) float64 { return math.Atan2(a[0], a[1]) }},
	"if": {3, func(a []float64) float64 {
		if a[0] > 0 {
			return a[1]
		}
		return a[2]
	}},
}

// parser is a recursive descent parser evaluating while it goes.
type parser struct {
	ev     *Evaluator
	tokens []token
	i      int
}

func (p *parser) peek() (token, bool) {
	if p.i >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.i], true
}

func (p *parser) expect(kind tokenKind) error {
	t, ok := p.peek()
	if !ok {
		return fmt.Errorf("%w: expected %s, got end of formula", ErrUnexpectedToken, kind)
	}
	if t.kind != kind {
		return fmt.Errorf("%w: expected %s, got %s at %d", ErrUnexpectedToken, kind, t, t.pos)
	}
	p.i++
	return nil
}

func (p *parser) additive() (float64, error) {
	left, err := p.multiplicative()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOperator || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.i++
		right, err := p.multiplicative()
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) multiplicative() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOperator || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.i++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if t.text == "*" {
			left *= right
		} else {
			left /= right
		}
	}
}

func (p *parser) unary() (float64, error) {
	if t, ok := p.peek(); ok && t.kind == tokOperator && t.text == "-" {
		p.i++
		v, err := p.basic()
		return -v, err
	}
	return p.basic()
}

func (p *parser) basic() (float64, error) {
	t, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end of formula", ErrUnexpectedToken)
	}
	p.i++

	switch t.kind {
	case tokNumber:
		return t.value, nil
	case tokIdentifier:
		if next, ok := p.peek(); ok && next.kind == tokOpenParen {
			return p.call(t)
		}
		return p.ev.identifier(t.text)
	case tokFormulaRef:
		return p.ev.Formula(t.text)
	case tokModifierRef:
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return 0, fmt.Errorf("%w: modifier reference $%s", ErrMalformedToken, t.text)
		}
		return p.ev.Modifier(n)
	case tokOpenParen:
		v, err := p.additive()
		if err != nil {
			return 0, err
		}
		return v, p.expect(tokCloseParen)
	}
	return 0, fmt.Errorf("%w: %s at %d", ErrUnexpectedToken, t, t.pos)
}

func (p *parser) call(name token) (float64, error) {
	f, ok := functions[name.text]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownFunction, name.text)
	}
	if err := p.expect(tokOpenParen); err != nil {
		return 0, err
	}
	args := make([]float64, 0, f.arity)
	for {
		v, err := p.additive()
		if err != nil {
			return 0, err
		}
		args = append(args, v)
		if t, ok := p.peek(); ok && t.kind == tokComma {
			p.i++
			continue
		}
		break
	}
	if err := p.expect(tokCloseParen); err != nil {
		return 0, err
	}
	if len(args) != f.arity {
		return 0, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrUnexpectedToken, name.text, f.arity, len(args))
	}
	return f.fn(args), nil
}
