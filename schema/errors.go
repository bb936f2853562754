package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateModule is wrapped by the ResolutionError reported when two
// different sources define a module of the same name.
var ErrDuplicateModule = errors.New("duplicate module")

// LexError reports malformed source text.
type LexError struct {
	Module  string // source module name, if known
	Line    int    // 1-based line number, 0 if not applicable
	Column  int    // 1-based column, 0 if not applicable
	Message string
}

func (e *LexError) Error() string {
	return "lex error: " + location(e.Module, e.Line, e.Column) + e.Message
}

// ParseError reports an unexpected token or a missing required element.
type ParseError struct {
	Module  string
	Line    int
	Column  int
	Token   string // text of the offending token, empty at end of input
	Message string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error: ")
	b.WriteString(location(e.Module, e.Line, e.Column))
	b.WriteString(e.Message)
	if e.Token != "" {
		fmt.Fprintf(&b, " (at %q)", e.Token)
	}
	return b.String()
}

// ImportError reports an import whose source module is not registered.
type ImportError struct {
	Importer   string // module declaring the import
	Module     string // missing source module
	Definition string // imported definition name
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("module %q, corresponding to definition %q, not found (imported by %q)",
		e.Module, e.Definition, e.Importer)
}

// ResolutionError reports a definition that could not be resolved.
type ResolutionError struct {
	Module     string
	Definition string
	Message    string
	Err        error // optional cause
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("resolution error: ")
	switch {
	case e.Module != "" && e.Definition != "":
		b.WriteString(e.Module + "." + e.Definition + ": ")
	case e.Module != "":
		b.WriteString(e.Module + ": ")
	case e.Definition != "":
		b.WriteString(e.Definition + ": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ErrorList is an ordered collection of independent failures found while
// scanning sibling items. The zero value is an empty list.
type ErrorList []error

// Append adds err to the list, flattening nested lists. Nil errors are ignored.
func (l *ErrorList) Append(err error) {
	if err == nil {
		return
	}
	if nested, ok := err.(ErrorList); ok {
		*l = append(*l, nested...)
		return
	}
	*l = append(*l, err)
}

// Err returns nil for an empty list, the sole error for a single-element
// list, and the list itself otherwise.
func (l ErrorList) Err() error {
	switch len(l) {
	case 0:
		return nil
	case 1:
		return l[0]
	default:
		return l
	}
}

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	if len(msgs) == 1 {
		return msgs[0]
	}
	return fmt.Sprintf("%d errors:\n  %s", len(msgs), strings.Join(msgs, "\n  "))
}

func (l ErrorList) Unwrap() []error { return l }

func location(module string, line, col int) string {
	var b strings.Builder
	if module != "" {
		b.WriteString(module)
	}
	if line > 0 {
		if module != "" {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%d", line)
		if col > 0 {
			fmt.Fprintf(&b, ":%d", col)
		}
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	return b.String()
}
