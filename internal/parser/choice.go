package parser

import (
	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/lexer"
	"github.com/golangsnmp/goaper/schema"
)

// ParseChoice parses "CHOICE { alt Type, ..., [...,] ext Type, [[ ... ]] }".
//
// Root alternatives are keyed 0..n-1 in textual order and extension
// additions continue the numbering with Extended set. Tags are kept on
// the alternatives; the resolver renumbers the root by tag where the
// module's tagging requires it. A second extension
// marker returns to the root. Errors in sibling alternatives are
// reported together.
func ParseChoice(tokens []lexer.Token) (*ast.Choice, int, error) {
	s := newStream(tokens)
	typ, err := s.parseChoice()
	return finish(s, typ, err)
}

func (s *stream) parseChoice() (*ast.Choice, error) {
	start := s.start()
	kw, err := s.expect(lexer.TokKwChoice)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}

	typ := &ast.Choice{}
	var errs schema.ErrorList
	var root, additions []ast.Alternative
	markers := 0
	inGroup := false

	for {
		switch {
		case s.accept(lexer.TokEllipsis):
			markers++
			if markers > 2 {
				return nil, errorAt(s.tokens[s.pos-1], "more than two extension markers")
			}
			typ.Extensible = true
		case !inGroup && s.check(lexer.TokLBracket) && s.peekNth(1).Kind == lexer.TokLBracket:
			if markers != 1 {
				return nil, s.errorf("extension addition group outside the extension")
			}
			s.advance()
			s.advance()
			inGroup = true
			continue
		default:
			alt, err := s.parseAlternative()
			if err != nil {
				errs.Append(err)
				s.recoverToSibling()
			} else if markers == 1 {
				alt.Extended = true
				additions = append(additions, alt)
			} else {
				root = append(root, alt)
			}
		}

		if inGroup && s.check(lexer.TokRBracket) && s.peekNth(1).Kind == lexer.TokRBracket {
			s.advance()
			s.advance()
			inGroup = false
		}

		switch {
		case s.accept(lexer.TokComma):
		case !inGroup && s.accept(lexer.TokRBrace):
			if err := errs.Err(); err != nil {
				return nil, err
			}
			if len(root) == 0 {
				return nil, errorAt(kw, "CHOICE has no root alternatives")
			}
			for i := range root {
				root[i].Key = ast.KeyOf(i)
			}
			for i := range additions {
				additions[i].Key = ast.KeyOf(len(root) + i)
			}
			typ.Alternatives = append(root, additions...)
			typ.Numbered = true
			typ.Span = s.spanFrom(start)
			return typ, nil
		default:
			errs.Append(s.unexpected("',' or '}'"))
			return nil, errs.Err()
		}
	}
}

func (s *stream) parseAlternative() (ast.Alternative, error) {
	start := s.start()
	nameTok, err := s.expect(lexer.TokLowercaseIdent)
	if err != nil {
		return ast.Alternative{}, err
	}
	tag, payload, err := s.parseTaggedType()
	if err != nil {
		return ast.Alternative{}, err
	}
	return ast.Alternative{
		Name: makeIdent(nameTok),
		Tag:  tag,
		Type: payload,
		Span: s.spanFrom(start),
	}, nil
}

// recoverToSibling skips to the next ',' or the closing '}' at the
// current nesting depth.
func (s *stream) recoverToSibling() {
	depth := 0
	for !s.isEOF() {
		switch s.peek().Kind {
		case lexer.TokLBrace, lexer.TokLParen:
			depth++
		case lexer.TokRBrace, lexer.TokRParen:
			if depth == 0 {
				return
			}
			depth--
		case lexer.TokComma:
			if depth == 0 {
				return
			}
		}
		s.advance()
	}
}
