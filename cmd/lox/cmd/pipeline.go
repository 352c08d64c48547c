package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/smbl64/lox/internal/ast"
	"github.com/smbl64/lox/internal/config"
	"github.com/smbl64/lox/internal/diag"
	"github.com/smbl64/lox/internal/interp"
	"github.com/smbl64/lox/internal/parser"
	"github.com/smbl64/lox/internal/resolver"
	"github.com/smbl64/lox/internal/scanner"
	"github.com/smbl64/lox/internal/token"
)

// sysexits-style process exit codes, grounded in original_source's
// main.rs (`std::process::exit(64)` for a usage error) and in jlox's own
// convention (70, EX_SOFTWARE, for an uncaught runtime error) which the
// rest of the crafting-interpreters lineage — including the reference
// this module descends from — also follows.
const (
	exitOK = 0
	// ExitUsage is returned by main when cobra itself rejects the
	// command line (e.g. more than one script argument).
	ExitUsage        = 64
	exitStaticErrors = 1  // scan/parse/resolve diagnostics
	exitRuntimeError = 70 // EX_SOFTWARE
	exitIOError      = 74 // EX_IOERR
)

// loadSource reads the named file, or stdin if filename is "-".
func loadSource(filename string) (string, error) {
	if filename == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// scanAndParse runs the first two pipeline stages and prints any
// diagnostics to stderr. ok is false if either stage produced an error.
func scanAndParse(source string) (tokens []token.Token, statements []ast.Stmt, ok bool) {
	toks, scanErrs := scanner.ScanAll(source)
	if scanErrs.HasErrors() {
		printDiagnostics(scanErrs, source)
		return toks, nil, false
	}

	p := parser.New(toks)
	statements, parseErrs := p.Parse()
	if parseErrs.HasErrors() {
		printDiagnostics(parseErrs, source)
		return toks, statements, false
	}

	return toks, statements, true
}

// resolveProgram runs the resolver and prints any diagnostics to stderr.
func resolveProgram(statements []ast.Stmt, policy config.BreakPolicy, source string) (resolver.Depths, bool) {
	depths, errs := resolver.ResolveWithPolicy(statements, policy)
	if errs.HasErrors() {
		printDiagnostics(errs, source)
		return nil, false
	}
	return depths, true
}

func printDiagnostics(list diag.List, source string) {
	for _, d := range list {
		if prettyOutput {
			fmt.Fprintln(os.Stderr, d.Pretty(source))
		} else {
			fmt.Fprintln(os.Stderr, d.Format())
		}
	}
}

// runSource runs scan -> parse -> resolve -> interpret over source and
// returns the process exit code to use.
func runSource(source string, stdout io.Writer, cfg *config.Config) int {
	_, statements, ok := scanAndParse(source)
	if !ok {
		return exitStaticErrors
	}

	depths, ok := resolveProgram(statements, cfg.Break.Policy, source)
	if !ok {
		return exitStaticErrors
	}

	i := interp.NewWithConfig(stdout, cfg)
	if rerr := i.Interpret(statements, depths); rerr != nil {
		d := diag.New(diag.Runtime, rerr.Line, rerr.Message)
		if prettyOutput {
			fmt.Fprintln(os.Stderr, d.Pretty(source))
		} else {
			fmt.Fprintln(os.Stderr, d.Format())
		}
		return exitRuntimeError
	}

	return exitOK
}
