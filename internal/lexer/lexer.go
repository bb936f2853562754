package lexer

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

type lexerState int

const (
	stateNormal lexerState = iota
	stateInComment
	stateInBlockComment
)

// Lexer tokenizes ASN.1 module source text.
type Lexer struct {
	source       []byte
	pos          int
	state        lexerState
	commentDepth int
	lines        *types.LineTable
	errors       []*schema.LexError
	types.Logger
}

// New returns a Lexer that tokenizes the given source bytes.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		state:  stateNormal,
		lines:  types.NewLineTable(source),
		Logger: types.Logger{L: logger},
	}
	l.Log(slog.LevelDebug, "lexer initialized", slog.Int("bytes", len(source)))
	return l
}

// Tokenize scans all source text and returns the token stream, which
// always ends with a TokEOF token. The error is the first lexical error
// found, if any.
func Tokenize(source []byte, logger *slog.Logger) ([]Token, error) {
	return New(source, logger).Tokenize()
}

// Errors returns a copy of all lexical errors collected so far.
func (l *Lexer) Errors() []*schema.LexError {
	return slices.Clone(l.errors)
}

func (l *Lexer) traceToken(tok Token) {
	if l.TraceEnabled() {
		l.Trace("token",
			slog.String("kind", tok.Kind.String()),
			slog.String("text", tok.Text),
			slog.Int("line", tok.Pos.Line),
			slog.Int("column", tok.Pos.Column))
	}
}

// Tokenize consumes all source text and returns the token stream. Lexing
// continues past errors so Errors reports every problem, but the first
// one is returned.
func (l *Lexer) Tokenize() ([]Token, error) {
	estimatedTokens := max(len(l.source)/5, 64)
	tokens := make([]Token, 0, estimatedTokens)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	l.Log(slog.LevelDebug, "tokenization complete",
		slog.Int("tokens", len(tokens)),
		slog.Int("errors", len(l.errors)))
	if len(l.errors) > 0 {
		return tokens, l.errors[0]
	}
	return tokens, nil
}

// NextToken advances the lexer and returns the next token.
// Returns TokEOF when all input is consumed.
func (l *Lexer) NextToken() Token {
	for {
		switch l.state {
		case stateInComment:
			l.consumeComment()
			continue
		case stateInBlockComment:
			l.consumeBlockComment()
			continue
		default:
			tok, retry := l.nextNormalToken()
			if retry {
				continue
			}
			return tok
		}
	}
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	return l.source[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	idx := l.pos + offset
	if idx >= len(l.source) {
		return 0, false
	}
	return l.source[idx], true
}

func (l *Lexer) peekAtEquals(offset int, expected byte) bool {
	b, ok := l.peekAt(offset)
	return ok && b == expected
}

func (l *Lexer) advance() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	return b, true
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) skipToEOL() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' || b == '\r' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) error(start int, message string) {
	pos := l.lines.Position(types.ByteOffset(start))
	l.errors = append(l.errors, &schema.LexError{
		Line:    pos.Line,
		Column:  pos.Column,
		Message: message,
	})
	l.Log(slog.LevelDebug, "lex error",
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
		slog.String("message", message))
}

func (l *Lexer) spanFrom(start int) types.Span {
	return types.Span{
		Start: types.ByteOffset(start),
		End:   types.ByteOffset(l.pos),
	}
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	tok := Token{
		Kind: kind,
		Text: string(l.source[start:l.pos]),
		Span: l.spanFrom(start),
		Pos:  l.lines.Position(types.ByteOffset(start)),
	}
	l.traceToken(tok)
	return tok
}

var punctuation = map[byte]TokenKind{
	'[': TokLBracket,
	']': TokRBracket,
	'{': TokLBrace,
	'}': TokRBrace,
	'(': TokLParen,
	')': TokRParen,
	';': TokSemicolon,
	',': TokComma,
	'|': TokPipe,
}

// nextNormalToken scans the next token in normal state. Returns (token, retry)
// where retry=true means the caller should loop (e.g. after skipping junk or
// entering comment state).
func (l *Lexer) nextNormalToken() (Token, bool) {
	l.skipWhitespace()

	start := l.pos

	b, ok := l.peek()
	if !ok {
		return l.token(TokEOF, start), false
	}

	if b == '-' && l.peekAtEquals(1, '-') {
		l.advance()
		l.advance()
		l.state = stateInComment
		return Token{}, true
	}
	if b == '/' && l.peekAtEquals(1, '*') {
		l.advance()
		l.advance()
		l.state = stateInBlockComment
		l.commentDepth = 1
		return Token{}, true
	}

	if kind, ok := punctuation[b]; ok {
		l.advance()
		return l.token(kind, start), false
	}

	switch {
	case b == '.':
		l.advance()
		if l.peekAtEquals(0, '.') {
			l.advance()
			if l.peekAtEquals(0, '.') {
				l.advance()
				return l.token(TokEllipsis, start), false
			}
			return l.token(TokDotDot, start), false
		}
		return l.token(TokDot, start), false

	case b == ':':
		l.advance()
		if l.peekAtEquals(0, ':') && l.peekAtEquals(1, '=') {
			l.advance()
			l.advance()
			return l.token(TokColonColonEqual, start), false
		}
		return l.token(TokColon, start), false

	case b == '-':
		if next, ok := l.peekAt(1); ok && isDigit(next) {
			return l.scanNegativeNumber(), false
		}
		l.advance()
		return l.token(TokMinus, start), false

	case isDigit(b):
		return l.scanNumber(), false

	case b == '"':
		return l.scanQuotedString(), false

	case b == '\'':
		return l.scanHexOrBinString(), false

	case isAlpha(b):
		return l.scanIdentifierOrKeyword(), false
	}

	l.advance()
	l.error(start, fmt.Sprintf("unexpected character: 0x%02x", b))
	l.skipToEOL()
	return Token{}, true
}

// consumeComment skips a "--" comment, which ends at the next "--" or at
// the end of the line.
func (l *Lexer) consumeComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' || b == '\r' {
			l.state = stateNormal
			return
		}
		if b == '-' && l.peekAtEquals(1, '-') {
			l.advance()
			l.advance()
			l.state = stateNormal
			return
		}
		l.advance()
	}
}

// consumeBlockComment skips a "/* */" comment. Block comments nest.
func (l *Lexer) consumeBlockComment() {
	start := l.pos - 2
	for {
		b, ok := l.peek()
		if !ok {
			l.error(start, "unterminated block comment")
			l.state = stateNormal
			return
		}
		switch {
		case b == '/' && l.peekAtEquals(1, '*'):
			l.advance()
			l.advance()
			l.commentDepth++
		case b == '*' && l.peekAtEquals(1, '/'):
			l.advance()
			l.advance()
			l.commentDepth--
			if l.commentDepth == 0 {
				l.state = stateNormal
				return
			}
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanIdentifierOrKeyword() Token {
	start := l.pos
	firstChar, _ := l.advance()
	isUppercase := isUpperAlpha(firstChar)

	for {
		b, ok := l.peek()
		if !ok {
			break
		}
		if isAlphanumeric(b) || b == '_' {
			l.advance()
			continue
		}
		// A hyphen belongs to the identifier only when a letter or digit
		// follows; "--" starts a comment and identifiers never end in '-'.
		if b == '-' {
			if next, ok := l.peekAt(1); ok && isAlphanumeric(next) {
				l.advance()
				continue
			}
		}
		break
	}

	text := string(l.source[start:l.pos])

	if kind, ok := LookupKeyword(text); ok {
		return l.token(kind, start)
	}
	if IsReservedKeyword(text) {
		return l.token(TokReservedKeyword, start)
	}

	kind := TokLowercaseIdent
	if isUppercase {
		kind = TokUppercaseIdent
	}
	return l.token(kind, start)
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	l.skipDigits()
	return l.token(TokNumber, start)
}

func (l *Lexer) scanNegativeNumber() Token {
	start := l.pos
	l.advance() // consume -
	l.skipDigits()
	return l.token(TokNegativeNumber, start)
}

func (l *Lexer) skipDigits() {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanQuotedString() Token {
	start := l.pos
	l.advance() // consume opening quote

	for {
		b, ok := l.peek()
		if !ok {
			l.error(start, "unterminated string literal")
			return l.token(TokError, start)
		}
		l.advance()
		if b == '"' {
			// "" is an escaped quote inside the literal.
			if l.peekAtEquals(0, '"') {
				l.advance()
				continue
			}
			return l.token(TokQuotedString, start)
		}
	}
}

func (l *Lexer) scanHexOrBinString() Token {
	start := l.pos
	l.advance() // consume opening quote

	for {
		b, ok := l.peek()
		if !ok || b == '\'' {
			break
		}
		l.advance()
	}

	if b, ok := l.peek(); !ok || b != '\'' {
		l.error(start, "unterminated hex/binary string")
		return l.token(TokError, start)
	}
	l.advance() // consume closing quote

	suffix, ok := l.peek()
	if !ok {
		l.error(start, "expected 'H' or 'B' suffix for hex/binary string")
		return l.token(TokError, start)
	}

	var kind TokenKind
	switch suffix {
	case 'H', 'h':
		l.advance()
		kind = TokHexString
	case 'B', 'b':
		l.advance()
		kind = TokBinString
	default:
		l.error(start, "expected 'H' or 'B' suffix for hex/binary string")
		kind = TokError
	}

	return l.token(kind, start)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isUpperAlpha(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isAlphanumeric(b byte) bool {
	return isAlpha(b) || isDigit(b)
}
