package parser

import (
	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/lexer"
)

// ParseInteger parses "INTEGER [{ name(value), ... }] [(constraint)]".
// A missing brace list yields nil NamedValues, not a failure. Duplicate
// names are accepted here and rejected by the resolver.
func ParseInteger(tokens []lexer.Token) (*ast.Integer, int, error) {
	s := newStream(tokens)
	typ, err := s.parseInteger()
	return finish(s, typ, err)
}

func (s *stream) parseInteger() (*ast.Integer, error) {
	start := s.start()
	if _, err := s.expect(lexer.TokKwInteger); err != nil {
		return nil, err
	}
	typ := &ast.Integer{}

	if s.check(lexer.TokLBrace) {
		values, err := s.parseNamedValueList()
		if err != nil {
			return nil, err
		}
		typ.NamedValues = values
	}

	if s.check(lexer.TokLParen) {
		if s.peekNth(1).Kind == lexer.TokKwSize {
			return nil, s.errorf("SIZE constraint is not valid on INTEGER")
		}
		c, err := s.parseValueConstraint()
		if err != nil {
			return nil, err
		}
		typ.Constraint = c
	}

	typ.Span = s.spanFrom(start)
	return typ, nil
}

// parseNamedValueList parses "{ name(value), ... }". Every pair must
// carry a value.
func (s *stream) parseNamedValueList() ([]ast.NamedValue, error) {
	if _, err := s.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	values := []ast.NamedValue{}
	for {
		nameTok := s.peek()
		nv, hasValue, err := s.parseNamedValue()
		if err != nil {
			return nil, err
		}
		if !hasValue {
			return nil, errorAt(nameTok, "Name(Value) expected, Value missing!")
		}
		values = append(values, nv)

		switch {
		case s.accept(lexer.TokComma):
		case s.accept(lexer.TokRBrace):
			return values, nil
		default:
			return nil, s.unexpected("',' or '}'")
		}
	}
}

// ParseNamedValue parses "name(value)" where value is a signed number or
// an identifier. hasValue is false for "name()".
func ParseNamedValue(tokens []lexer.Token) (nv ast.NamedValue, hasValue bool, consumed int, err error) {
	s := newStream(tokens)
	nv, hasValue, err = s.parseNamedValue()
	if err != nil {
		return ast.NamedValue{}, false, 0, err
	}
	return nv, hasValue, s.pos, nil
}

func (s *stream) parseNamedValue() (ast.NamedValue, bool, error) {
	start := s.start()
	nameTok, err := s.expectIdentifier()
	if err != nil {
		return ast.NamedValue{}, false, err
	}
	if _, err := s.expect(lexer.TokLParen); err != nil {
		return ast.NamedValue{}, false, err
	}
	nv := ast.NamedValue{Name: makeIdent(nameTok)}
	if s.accept(lexer.TokRParen) {
		nv.Span = s.spanFrom(start)
		return nv, false, nil
	}
	value, err := s.parseValue()
	if err != nil {
		return ast.NamedValue{}, false, err
	}
	if _, err := s.expect(lexer.TokRParen); err != nil {
		return ast.NamedValue{}, false, err
	}
	nv.Value = value
	nv.Span = s.spanFrom(start)
	return nv, true, nil
}

// parseValue parses a signed number or a value reference.
func (s *stream) parseValue() (ast.ValueRef, error) {
	tok := s.peek()
	switch {
	case tok.IsNumber():
		s.advance()
		n, err := parseNumber(tok)
		if err != nil {
			return ast.ValueRef{}, err
		}
		return ast.ValueRef{Number: n, Span: tok.Span}, nil
	case tok.IsIdentifier():
		s.advance()
		ident := makeIdent(tok)
		return ast.ValueRef{Ref: &ident, Span: tok.Span}, nil
	default:
		return ast.ValueRef{}, s.unexpected("number or value reference")
	}
}
