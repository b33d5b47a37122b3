package geometry

import (
	"fmt"
	"strconv"

	parse "github.com/tdewolff/parse/v2"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdentifier
	tokFormulaRef
	tokModifierRef
	tokOperator
	tokOpenParen
	tokCloseParen
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokNumber:
		return "number"
	case tokIdentifier:
		return "identifier"
	case tokFormulaRef:
		return "formula reference"
	case tokModifierRef:
		return "modifier reference"
	case tokOperator:
		return "operator"
	case tokOpenParen:
		return "'('"
	case tokCloseParen:
		return "')'"
	case tokComma:
		return "','"
	}
	return "unknown"
}

type token struct {
	kind  tokenKind
	text  string
	value float64
	pos   int
}

func (t token) String() string {
	if t.kind == tokOperator || t.kind == tokOpenParen || t.kind == tokCloseParen || t.kind == tokComma {
		return t.kind.String()
	}
	return fmt.Sprintf("%s %q", t.kind, t.text)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

// tokenize scans formula source once, left to right.
func tokenize(src string) ([]token, error) {
	z := parse.NewInputString(src)

	var (
		tokens []token
		pos    int
	)
	emit := func(kind tokenKind) token {
		lexeme := z.Shift()
		t := token{kind: kind, text: string(lexeme), pos: pos}
		pos += len(lexeme)
		return t
	}

	for {
		c := z.Peek(0)
		if c == 0 {
			break
		}
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			z.Move(1)
			z.Skip()
			pos++
		case c == '+' || c == '-' || c == '*' || c == '/':
			z.Move(1)
			tokens = append(tokens, emit(tokOperator))
		case c == '(':
			z.Move(1)
			tokens = append(tokens, emit(tokOpenParen))
		case c == ')':
			z.Move(1)
			tokens = append(tokens, emit(tokCloseParen))
		case c == ',':
			z.Move(1)
			tokens = append(tokens, emit(tokComma))
		case isDigit(c) || c == '.':
			lexNumber(z)
			t := emit(tokNumber)
			v, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: number %q at %d", ErrMalformedToken, t.text, t.pos)
			}
			t.value = v
			tokens = append(tokens, t)
		case c == '?':
			z.Move(1)
			for isNameChar(z.Peek(0)) {
				z.Move(1)
			}
			t := emit(tokFormulaRef)
			t.text = t.text[1:]
			if t.text == "" {
				return nil, fmt.Errorf("%w: empty formula reference at %d", ErrMalformedToken, t.pos)
			}
			tokens = append(tokens, t)
		case c == '$':
			z.Move(1)
			for isDigit(z.Peek(0)) {
				z.Move(1)
			}
			t := emit(tokModifierRef)
			t.text = t.text[1:]
			if t.text == "" {
				return nil, fmt.Errorf("%w: empty modifier reference at %d", ErrMalformedToken, t.pos)
			}
			tokens = append(tokens, t)
		case isLetter(c):
			for isLetter(z.Peek(0)) || isDigit(z.Peek(0)) {
				z.Move(1)
			}
			tokens = append(tokens, emit(tokIdentifier))
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrMalformedToken, c, pos)
		}
	}
	return tokens, nil
}

// lexNumber consumes integer, fractional and exponent forms.
func lexNumber(z *parse.Input) {
	for isDigit(z.Peek(0)) {
		z.Move(1)
	}
	if z.Peek(0) == '.' {
		z.Move(1)
		for isDigit(z.Peek(0)) {
			z.Move(1)
		}
	}
	if c := z.Peek(0); c == 'e' || c == 'E' {
		n := 1
		if s := z.Peek(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(z.Peek(n)) {
			z.Move(n)
			for isDigit(z.Peek(0)) {
				z.Move(1)
			}
		}
	}
}
