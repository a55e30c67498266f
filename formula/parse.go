package formula

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokTrue
	tokFalse
	tokNull
	tokAnd
	tokOr
	tokNot
	tokBang
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// keywords maps word operators and literal constants. Both the word forms
// (and, or, not) and the symbol forms (&&, ||, !) are accepted.
var keywords = map[string]tokenKind{
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
	"true":  tokTrue,
	"false": tokFalse,
	"null":  tokNull,
	"none":  tokNull,
}

type scanner struct {
	src []rune
	pos int
}

func (s *scanner) next() (token, error) {
	for s.pos < len(s.src) && unicode.IsSpace(s.src[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.src) {
		return token{kind: tokEOF}, nil
	}

	c := s.src[s.pos]
	switch {
	case unicode.IsDigit(c) || (c == '.' && s.pos+1 < len(s.src) && unicode.IsDigit(s.src[s.pos+1])):
		return s.scanNumber()
	case unicode.IsLetter(c) || c == '_':
		return s.scanWord()
	case c == '\'' || c == '"':
		return s.scanString(c)
	}

	s.pos++
	switch c {
	case '+':
		return token{kind: tokPlus, text: "+"}, nil
	case '-':
		return token{kind: tokMinus, text: "-"}, nil
	case '*':
		return token{kind: tokStar, text: "*"}, nil
	case '/':
		return token{kind: tokSlash, text: "/"}, nil
	case '%':
		return token{kind: tokPercent, text: "%"}, nil
	case '(':
		return token{kind: tokLParen, text: "("}, nil
	case ')':
		return token{kind: tokRParen, text: ")"}, nil
	case '=':
		if s.eat('=') {
			return token{kind: tokEq, text: "=="}, nil
		}
		return token{}, fmt.Errorf("assignment is not allowed, use == for comparison")
	case '!':
		if s.eat('=') {
			return token{kind: tokNe, text: "!="}, nil
		}
		return token{kind: tokBang, text: "!"}, nil
	case '<':
		if s.eat('=') {
			return token{kind: tokLe, text: "<="}, nil
		}
		return token{kind: tokLt, text: "<"}, nil
	case '>':
		if s.eat('=') {
			return token{kind: tokGe, text: ">="}, nil
		}
		return token{kind: tokGt, text: ">"}, nil
	case '&':
		if s.eat('&') {
			return token{kind: tokAnd, text: "&&"}, nil
		}
	case '|':
		if s.eat('|') {
			return token{kind: tokOr, text: "||"}, nil
		}
	}
	return token{}, fmt.Errorf("unexpected character %q", string(c))
}

func (s *scanner) eat(c rune) bool {
	if s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) scanNumber() (token, error) {
	start := s.pos
	for s.pos < len(s.src) && (unicode.IsDigit(s.src[s.pos]) || s.src[s.pos] == '.') {
		s.pos++
	}
	text := string(s.src[start:s.pos])
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, fmt.Errorf("invalid number %q", text)
	}
	return token{kind: tokNumber, text: text, num: n}, nil
}

func (s *scanner) scanWord() (token, error) {
	start := s.pos
	for s.pos < len(s.src) && (unicode.IsLetter(s.src[s.pos]) || unicode.IsDigit(s.src[s.pos]) || s.src[s.pos] == '_') {
		s.pos++
	}
	text := string(s.src[start:s.pos])
	if kind, ok := keywords[strings.ToLower(text)]; ok {
		return token{kind: kind, text: text}, nil
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		return token{}, fmt.Errorf("attribute access is not allowed: %q", text)
	}
	return token{kind: tokIdent, text: text}, nil
}

func (s *scanner) scanString(quote rune) (token, error) {
	s.pos++ // opening quote
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != quote {
		s.pos++
	}
	if s.pos >= len(s.src) {
		return token{}, fmt.Errorf("unterminated string literal")
	}
	text := string(s.src[start:s.pos])
	s.pos++ // closing quote
	return token{kind: tokString, text: text}, nil
}

// AST nodes. The tree is evaluated directly; no compilation step beyond
// parsing is needed at these expression sizes.
type node interface{}

type literal struct{ val any }

type ident struct{ name string }

type unary struct {
	op tokenKind
	x  node
}

type binary struct {
	op   tokenKind
	x, y node
}

// Binding powers, lowest first. Comparison binds tighter than the logical
// connectives so `a > 1 and b > 2` groups as expected.
const (
	precLowest = iota
	precOr
	precAnd
	precCompare
	precAdd
	precMul
)

func binaryPrec(kind tokenKind) int {
	switch kind {
	case tokOr:
		return precOr
	case tokAnd:
		return precAnd
	case tokEq, tokNe, tokLt, tokLe, tokGt, tokGe:
		return precCompare
	case tokPlus, tokMinus:
		return precAdd
	case tokStar, tokSlash, tokPercent:
		return precMul
	}
	return precLowest
}

type parser struct {
	s   scanner
	cur token
	err error
}

func newParser(src string) *parser {
	p := &parser{s: scanner{src: []rune(src)}}
	p.advance()
	return p
}

func (p *parser) advance() {
	if p.err != nil {
		return
	}
	tok, err := p.s.next()
	if err != nil {
		p.err = err
		p.cur = token{kind: tokEOF}
		return
	}
	p.cur = tok
}

func (p *parser) parseExpr(minPrec int) (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		if p.err != nil {
			return nil, p.err
		}
		prec := binaryPrec(p.cur.kind)
		if prec == precLowest || prec < minPrec {
			return left, nil
		}
		op := p.cur.kind
		p.advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = binary{op: op, x: left, y: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.cur.kind {
	case tokNot:
		p.advance()
		// The word form binds looser than comparison, matching the
		// word-operator convention: `not a > b` negates the comparison.
		x, err := p.parseExpr(precCompare)
		if err != nil {
			return nil, err
		}
		return unary{op: tokNot, x: x}, nil
	case tokBang:
		p.advance()
		// The symbol form binds tightest, like the C-family operators it
		// comes with: `!a == b` negates a, not the comparison.
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unary{op: tokNot, x: x}, nil
	case tokMinus:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unary{op: tokMinus, x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.cur.kind {
	case tokNumber:
		n := literal{val: p.cur.num}
		p.advance()
		return n, nil
	case tokString:
		n := literal{val: p.cur.text}
		p.advance()
		return n, nil
	case tokTrue:
		p.advance()
		return literal{val: true}, nil
	case tokFalse:
		p.advance()
		return literal{val: false}, nil
	case tokNull:
		p.advance()
		return literal{val: nil}, nil
	case tokIdent:
		n := ident{name: p.cur.text}
		p.advance()
		if p.cur.kind == tokLParen {
			return nil, fmt.Errorf("function calls are not allowed: %q", n.name)
		}
		return n, nil
	case tokLParen:
		p.advance()
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.advance()
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of formula")
	}
	return nil, fmt.Errorf("unexpected %q", p.cur.text)
}
