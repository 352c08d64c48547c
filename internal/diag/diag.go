// Package diag provides the shared diagnostic type used by every phase of
// the pipeline (scanner, parser, resolver, interpreter) and formats it in
// the wire format the end-to-end test harness expects.
//
// This generalizes the teacher's internal/errors.CompilerError (source-line
// and caret rendering) into a smaller, phase-agnostic type: the Lox wire
// format (unlike DWScript's) is a single line per diagnostic, so the
// richer form that adds the offending source line (without a caret) is
// kept only behind the optional Pretty() method, never the default
// Error()/Format().
package diag

import (
	"fmt"
	"strings"

	"github.com/smbl64/lox/internal/token"
)

// Phase identifies which stage of the pipeline raised a Diagnostic.
type Phase string

// The four phases that can raise diagnostics, in pipeline order.
const (
	Scan    Phase = "scan"
	Parse   Phase = "parse"
	Resolve Phase = "resolve"
	Runtime Phase = "runtime"
)

// Diagnostic is a single reported problem: which phase raised it, the
// line it occurred on, the offending token (nil for scan errors and for
// "at end of input" parse errors), and a human-readable message.
type Diagnostic struct {
	Phase   Phase
	Line    int
	Token   *token.Token
	AtEnd   bool
	Message string
}

// New builds a plain line-only diagnostic (used by the scanner, which has
// no token to anchor to).
func New(phase Phase, line int, message string) Diagnostic {
	return Diagnostic{Phase: phase, Line: line, Message: message}
}

// At builds a diagnostic anchored to a specific token (used by the parser
// and resolver).
func At(phase Phase, tok token.Token, message string) Diagnostic {
	return Diagnostic{Phase: phase, Line: tok.Line, Token: &tok, Message: message}
}

// AtEOF builds a diagnostic for an error discovered at the end of the
// token stream (the parser's "Error at end" case).
func AtEOF(phase Phase, line int, message string) Diagnostic {
	return Diagnostic{Phase: phase, Line: line, AtEnd: true, Message: message}
}

// Error implements the error interface by delegating to Format.
func (d Diagnostic) Error() string { return d.Format() }

// Format renders the diagnostic in the exact wire format described by the
// interpreter's specification:
//
//	scan:    [line N] Error: MESSAGE
//	parse:   [line N] Error at 'LEXEME': MESSAGE
//	parse:   [line N] Error at end: MESSAGE
//	resolve: [line N] Error at 'LEXEME': MESSAGE
//	runtime: MESSAGE\n[line N]
func (d Diagnostic) Format() string {
	if d.Phase == Runtime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	if d.AtEnd {
		return fmt.Sprintf("[line %d] Error at end: %s", d.Line, d.Message)
	}
	if d.Token != nil {
		return fmt.Sprintf("[line %d] Error at '%s': %s", d.Line, d.Token.Lexeme, d.Message)
	}
	return fmt.Sprintf("[line %d] Error: %s", d.Line, d.Message)
}

// Pretty renders a multi-line, source-annotated form of the diagnostic,
// used only behind the CLI's --pretty flag — grounded in the teacher's
// CompilerError.Format(color), generalized to a single-line source
// (Lox diagnostics only ever need the one offending line, never a
// multi-line context window).
func (d Diagnostic) Pretty(source string) string {
	var sb strings.Builder
	sb.WriteString(d.Format())

	lines := strings.Split(source, "\n")
	if d.Line >= 1 && d.Line <= len(lines) {
		sb.WriteString("\n    ")
		sb.WriteString(lines[d.Line-1])
	}
	return sb.String()
}

// List is a collection of diagnostics from a single phase.
type List []Diagnostic

// Error implements the error interface, joining every diagnostic's
// Format() with a newline — this is what gets written to stderr, one
// diagnostic per line, per the spec's external-interface section.
func (l List) Error() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Format()
	}
	return strings.Join(lines, "\n")
}

// HasErrors reports whether the list is non-empty.
func (l List) HasErrors() bool { return len(l) > 0 }
