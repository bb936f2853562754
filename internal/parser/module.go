package parser

import (
	"log/slog"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/lexer"
	"github.com/golangsnmp/goaper/schema"
)

// ParseModule parses a complete module:
//
//	Name [{ oid }] DEFINITIONS [tagging TAGS] [EXTENSIBILITY IMPLIED] ::=
//	BEGIN [EXPORTS ...;] [IMPORTS ... FROM Module ...;] assignments END
//
// Errors in individual assignments are collected and reported together.
func ParseModule(tokens []lexer.Token) (*ast.Module, int, error) {
	s := newStream(tokens)
	mod, err := s.parseModule()
	return finish(s, mod, err)
}

func (s *stream) parseModule() (*ast.Module, error) {
	start := s.start()
	module, err := s.parseModuleHeader()
	if err != nil {
		return nil, err
	}
	s.Log(slog.LevelDebug, "parsing module", slog.String("module", module.Name.Name))

	if s.check(lexer.TokKwExports) {
		exports, err := s.parseExports()
		if err != nil {
			return nil, err
		}
		module.Exports = exports
	}
	if s.check(lexer.TokKwImports) {
		imports, err := s.parseImports()
		if err != nil {
			return nil, err
		}
		module.Imports = imports
		s.Log(slog.LevelDebug, "parsed imports",
			slog.String("module", module.Name.Name),
			slog.Int("count", len(imports)))
	}

	var errs schema.ErrorList
	for !s.check(lexer.TokKwEnd) {
		if s.isEOF() {
			errs.Append(s.unexpected("END"))
			return nil, errs.Err()
		}
		def, err := s.parseDefinition()
		if err != nil {
			errs.Append(err)
			s.Log(slog.LevelDebug, "failed to parse definition", slog.String("error", err.Error()))
			s.recoverToDefinition()
			continue
		}
		if s.TraceEnabled() {
			s.Trace("parsed definition", slog.String("name", def.DefinitionName()))
		}
		module.Body = append(module.Body, def)
	}
	s.advance() // END

	if err := errs.Err(); err != nil {
		return nil, err
	}
	module.Span = s.spanFrom(start)
	s.Log(slog.LevelDebug, "parsed module",
		slog.String("module", module.Name.Name),
		slog.Int("definitions", len(module.Body)))
	return module, nil
}

func (s *stream) parseModuleHeader() (*ast.Module, error) {
	start := s.start()
	nameTok, err := s.expect(lexer.TokUppercaseIdent)
	if err != nil {
		return nil, err
	}
	module := ast.NewModule(makeIdent(nameTok), s.spanFrom(start))

	// Module OIDs are irrelevant to encoding.
	if s.check(lexer.TokLBrace) {
		if err := s.skipBraced(); err != nil {
			return nil, err
		}
	}

	if _, err := s.expect(lexer.TokKwDefinitions); err != nil {
		return nil, err
	}

	tagged := true
	switch {
	case s.accept(lexer.TokKwAutomatic):
		module.Tagging = ast.TaggingAutomatic
	case s.accept(lexer.TokKwImplicit):
		module.Tagging = ast.TaggingImplicit
	case s.accept(lexer.TokKwExplicit):
		module.Tagging = ast.TaggingExplicit
	default:
		tagged = false
	}
	if tagged {
		if _, err := s.expect(lexer.TokKwTags); err != nil {
			return nil, err
		}
	}

	if s.accept(lexer.TokKwExtensibility) {
		if _, err := s.expect(lexer.TokKwImplied); err != nil {
			return nil, err
		}
		module.ExtensibilityImplied = true
	}

	if _, err := s.expect(lexer.TokColonColonEqual); err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokKwBegin); err != nil {
		return nil, err
	}
	return module, nil
}

// skipBraced skips a balanced "{ ... }" group.
func (s *stream) skipBraced() error {
	depth := 0
	for {
		tok := s.advance()
		switch tok.Kind {
		case lexer.TokEOF:
			return s.unexpected("'}'")
		case lexer.TokLBrace:
			depth++
		case lexer.TokRBrace:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

func (s *stream) parseExports() (*ast.ExportsClause, error) {
	start := s.start()
	s.advance() // EXPORTS
	exports := &ast.ExportsClause{}
	if s.accept(lexer.TokKwAll) {
		exports.All = true
	} else {
		for !s.check(lexer.TokSemicolon) {
			tok, err := s.expectIdentifier()
			if err != nil {
				return nil, err
			}
			exports.Symbols = append(exports.Symbols, makeIdent(tok))
			if !s.accept(lexer.TokComma) {
				break
			}
		}
	}
	if _, err := s.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	exports.Span = s.spanFrom(start)
	return exports, nil
}

// parseImports parses "IMPORTS a, B FROM M1 c FROM M2 { oid };".
func (s *stream) parseImports() ([]ast.ImportClause, error) {
	s.advance() // IMPORTS
	var clauses []ast.ImportClause
	for !s.check(lexer.TokSemicolon) {
		start := s.start()
		var symbols []ast.Ident
		for {
			tok, err := s.expectIdentifier()
			if err != nil {
				return nil, err
			}
			symbols = append(symbols, makeIdent(tok))
			// Parameterized references are imported as "Name{}".
			if s.check(lexer.TokLBrace) && s.peekNth(1).Kind == lexer.TokRBrace {
				s.advance()
				s.advance()
			}
			if !s.accept(lexer.TokComma) {
				break
			}
		}
		if _, err := s.expect(lexer.TokKwFrom); err != nil {
			return nil, err
		}
		from, err := s.expect(lexer.TokUppercaseIdent)
		if err != nil {
			return nil, err
		}
		if s.check(lexer.TokLBrace) {
			if err := s.skipBraced(); err != nil {
				return nil, err
			}
		}
		clauses = append(clauses, ast.NewImportClause(symbols, makeIdent(from), s.spanFrom(start)))
		if s.isEOF() {
			return nil, s.unexpected("';'")
		}
	}
	s.advance() // ;
	return clauses, nil
}

func (s *stream) parseDefinition() (ast.Definition, error) {
	start := s.start()
	nameTok := s.peek()
	switch nameTok.Kind {
	case lexer.TokUppercaseIdent:
		s.advance()
		if s.check(lexer.TokLBrace) {
			return nil, s.errorf("parameterized assignment %s is not supported", nameTok.Text)
		}
		if _, err := s.expect(lexer.TokColonColonEqual); err != nil {
			return nil, err
		}
		tag, typ, err := s.parseTaggedType()
		if err != nil {
			return nil, err
		}
		return &ast.TypeAssignment{Name: makeIdent(nameTok), Tag: tag, Type: typ, Span: s.spanFrom(start)}, nil

	case lexer.TokLowercaseIdent:
		s.advance()
		typ, err := s.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := s.expect(lexer.TokColonColonEqual); err != nil {
			return nil, err
		}
		if s.check(lexer.TokLBrace) {
			return nil, s.errorf("value %s: only integer values are supported", nameTok.Text)
		}
		value, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		return &ast.ValueAssignment{Name: makeIdent(nameTok), Type: typ, Value: value, Span: s.spanFrom(start)}, nil

	default:
		return nil, s.unexpected("assignment")
	}
}

// recoverToDefinition skips tokens until the start of a new assignment
// or END, allowing the parser to report later errors too.
func (s *stream) recoverToDefinition() {
	s.advance()
	for !s.isEOF() && !s.check(lexer.TokKwEnd) {
		current := s.peek().Kind
		next := s.peekNth(1).Kind
		if current == lexer.TokUppercaseIdent && next == lexer.TokColonColonEqual {
			return
		}
		if current == lexer.TokLowercaseIdent && s.startsValueAssignment() {
			return
		}
		s.advance()
	}
}

// startsValueAssignment reports whether "name Type ::=" begins here,
// for simple types only.
func (s *stream) startsValueAssignment() bool {
	next := s.peekNth(1).Kind
	if next != lexer.TokUppercaseIdent && next != lexer.TokKwInteger {
		return false
	}
	return s.peekNth(2).Kind == lexer.TokColonColonEqual
}
