package parser

import (
	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/lexer"
)

// ParseConstraint parses a value-range constraint such as "(0..255)",
// "(1..maxNrofCells, ...)" or "(MIN..0)".
func ParseConstraint(tokens []lexer.Token) (*ast.Constraint, int, error) {
	s := newStream(tokens)
	c, err := s.parseValueConstraint()
	return finish(s, c, err)
}

// ParseSizeConstraint parses "(SIZE (lb..ub[, ...])[, ...])".
func ParseSizeConstraint(tokens []lexer.Token) (*ast.Constraint, int, error) {
	s := newStream(tokens)
	c, err := s.parseSizeConstraint()
	return finish(s, c, err)
}

// parseAnyConstraint parses either form and reports whether it was SIZE.
func (s *stream) parseAnyConstraint() (*ast.Constraint, bool, error) {
	if s.peekNth(1).Kind == lexer.TokKwSize {
		c, err := s.parseSizeConstraint()
		return c, true, err
	}
	c, err := s.parseValueConstraint()
	return c, false, err
}

func (s *stream) parseValueConstraint() (*ast.Constraint, error) {
	start := s.start()
	if _, err := s.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	c, err := s.parseRangeBody()
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	c.Span = s.spanFrom(start)
	return c, nil
}

func (s *stream) parseSizeConstraint() (*ast.Constraint, error) {
	start := s.start()
	if _, err := s.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokKwSize); err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	c, err := s.parseRangeBody()
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	// "(SIZE(1..4), ...)" marks the size extensible as well.
	if s.accept(lexer.TokComma) {
		if _, err := s.expect(lexer.TokEllipsis); err != nil {
			return nil, err
		}
		c.Extensible = true
		if err := s.skipExtensionAdditions(); err != nil {
			return nil, err
		}
	}
	if _, err := s.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	c.Span = s.spanFrom(start)
	return c, nil
}

// parseRangeBody parses "bound[..bound][, ...[, additions]]" up to, not
// including, the closing parenthesis.
func (s *stream) parseRangeBody() (*ast.Constraint, error) {
	if s.check(lexer.TokEllipsis) {
		return nil, s.errorf("extension marker without a root constraint is not supported")
	}
	lower, err := s.parseBound()
	if err != nil {
		return nil, err
	}
	upper := lower
	if s.accept(lexer.TokDotDot) {
		upper, err = s.parseBound()
		if err != nil {
			return nil, err
		}
	}
	if s.check(lexer.TokPipe) {
		return nil, s.errorf("constraint unions are not supported")
	}

	c := &ast.Constraint{Lower: lower, Upper: upper}
	if s.accept(lexer.TokComma) {
		if _, err := s.expect(lexer.TokEllipsis); err != nil {
			return nil, err
		}
		c.Extensible = true
		if err := s.skipExtensionAdditions(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// skipExtensionAdditions skips ", additions" after an extension marker.
// Additions are not PER-visible.
func (s *stream) skipExtensionAdditions() error {
	if !s.accept(lexer.TokComma) {
		return nil
	}
	depth := 0
	for {
		switch s.peek().Kind {
		case lexer.TokEOF:
			return s.unexpected("')'")
		case lexer.TokLParen:
			depth++
		case lexer.TokRParen:
			if depth == 0 {
				return nil
			}
			depth--
		}
		s.advance()
	}
}

func (s *stream) parseBound() (ast.Bound, error) {
	tok := s.peek()
	switch tok.Kind {
	case lexer.TokNumber, lexer.TokNegativeNumber:
		s.advance()
		n, err := parseNumber(tok)
		if err != nil {
			return ast.Bound{}, err
		}
		return ast.NumberBound(n), nil
	case lexer.TokLowercaseIdent:
		s.advance()
		return ast.Bound{Kind: ast.BoundRef, Ref: makeIdent(tok)}, nil
	case lexer.TokKwMin:
		s.advance()
		return ast.Bound{Kind: ast.BoundMin}, nil
	case lexer.TokKwMax:
		s.advance()
		return ast.Bound{Kind: ast.BoundMax}, nil
	default:
		return ast.Bound{}, s.unexpected("number, value reference, MIN or MAX")
	}
}
