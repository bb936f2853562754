package parser

import (
	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/lexer"
)

// ParseBitString parses "BIT STRING [{ name(bit), ... }] [(SIZE(...))]".
func ParseBitString(tokens []lexer.Token) (*ast.BitString, int, error) {
	s := newStream(tokens)
	typ, err := s.parseBitString()
	return finish(s, typ, err)
}

func (s *stream) parseBitString() (*ast.BitString, error) {
	start := s.start()
	if _, err := s.expect(lexer.TokKwBit); err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokKwString); err != nil {
		return nil, err
	}
	typ := &ast.BitString{}
	if s.check(lexer.TokLBrace) {
		bits, err := s.parseNamedValueList()
		if err != nil {
			return nil, err
		}
		typ.NamedBits = bits
	}
	if s.check(lexer.TokLParen) {
		c, err := s.parseSizeConstraint()
		if err != nil {
			return nil, err
		}
		typ.Size = c
	}
	typ.Span = s.spanFrom(start)
	return typ, nil
}

// ParseOctetString parses "OCTET STRING [(SIZE(...))]".
func ParseOctetString(tokens []lexer.Token) (*ast.OctetString, int, error) {
	s := newStream(tokens)
	typ, err := s.parseOctetString()
	return finish(s, typ, err)
}

func (s *stream) parseOctetString() (*ast.OctetString, error) {
	start := s.start()
	if _, err := s.expect(lexer.TokKwOctet); err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokKwString); err != nil {
		return nil, err
	}
	typ := &ast.OctetString{}
	if s.check(lexer.TokLParen) {
		if s.peekNth(1).Kind == lexer.TokReservedKeyword && s.peekNth(1).Text == "CONTAINING" {
			return nil, s.errorf("contents constraints are not supported")
		}
		c, err := s.parseSizeConstraint()
		if err != nil {
			return nil, err
		}
		typ.Size = c
	}
	typ.Span = s.spanFrom(start)
	return typ, nil
}

// ParseEnumerated parses "ENUMERATED { item[(n)], ..., [...,] ext }".
func ParseEnumerated(tokens []lexer.Token) (*ast.Enumerated, int, error) {
	s := newStream(tokens)
	typ, err := s.parseEnumerated()
	return finish(s, typ, err)
}

func (s *stream) parseEnumerated() (*ast.Enumerated, error) {
	start := s.start()
	if _, err := s.expect(lexer.TokKwEnumerated); err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	typ := &ast.Enumerated{}
	for {
		if s.accept(lexer.TokEllipsis) {
			if typ.Extensible {
				return nil, errorAt(s.tokens[s.pos-1], "duplicate extension marker")
			}
			typ.Extensible = true
		} else {
			item, err := s.parseEnumItem(typ.Extensible)
			if err != nil {
				return nil, err
			}
			typ.Items = append(typ.Items, item)
		}

		switch {
		case s.accept(lexer.TokComma):
		case s.accept(lexer.TokRBrace):
			typ.Span = s.spanFrom(start)
			return typ, nil
		default:
			return nil, s.unexpected("',' or '}'")
		}
	}
}

func (s *stream) parseEnumItem(extended bool) (ast.EnumItem, error) {
	start := s.start()
	tok, err := s.expect(lexer.TokLowercaseIdent)
	if err != nil {
		return ast.EnumItem{}, err
	}
	item := ast.EnumItem{Name: makeIdent(tok), Extended: extended}
	if s.accept(lexer.TokLParen) {
		v, err := s.parseValue()
		if err != nil {
			return ast.EnumItem{}, err
		}
		if _, err := s.expect(lexer.TokRParen); err != nil {
			return ast.EnumItem{}, err
		}
		item.Value = &v
	}
	item.Span = s.spanFrom(start)
	return item, nil
}
