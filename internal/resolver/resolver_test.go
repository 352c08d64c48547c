package resolver

import (
	"testing"

	"github.com/smbl64/lox/internal/ast"
	"github.com/smbl64/lox/internal/config"
	"github.com/smbl64/lox/internal/parser"
	"github.com/smbl64/lox/internal/scanner"
)

func parseSource(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	toks, scanErrs := scanner.ScanAll(source)
	if scanErrs.HasErrors() {
		t.Fatalf("unexpected scan errors: %v", scanErrs)
	}
	p := parser.New(toks)
	statements, parseErrs := p.Parse()
	if parseErrs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	return statements
}

// findVariableNamed returns the first Variable read of name found by a
// depth-first walk over statements, relying on the fact every test program
// here has exactly one such read of interest.
func findVariableNamed(stmts []ast.Stmt, name string) *ast.Variable {
	var found *ast.Variable
	var walkExpr func(ast.Expr)
	walkExpr = func(e ast.Expr) {
		if found != nil || e == nil {
			return
		}
		if v, ok := e.(*ast.Variable); ok && v.Name.Lexeme == name {
			found = v
			return
		}
		switch expr := e.(type) {
		case *ast.Binary:
			walkExpr(expr.Left)
			walkExpr(expr.Right)
		case *ast.Unary:
			walkExpr(expr.Right)
		case *ast.Grouping:
			walkExpr(expr.Expression)
		case *ast.Assign:
			walkExpr(expr.Value)
		case *ast.Call:
			walkExpr(expr.Callee)
			for _, a := range expr.Arguments {
				walkExpr(a)
			}
		case *ast.Logical:
			walkExpr(expr.Left)
			walkExpr(expr.Right)
		}
	}
	var walkStmt func(ast.Stmt)
	walkStmt = func(s ast.Stmt) {
		if found != nil || s == nil {
			return
		}
		switch stmt := s.(type) {
		case *ast.Expression:
			walkExpr(stmt.Expr)
		case *ast.Print:
			for _, e := range stmt.Expressions {
				walkExpr(e)
			}
		case *ast.Var:
			walkExpr(stmt.Initializer)
		case *ast.Block:
			for _, inner := range stmt.Statements {
				walkStmt(inner)
			}
		case *ast.If:
			walkExpr(stmt.Condition)
			walkStmt(stmt.Then)
			walkStmt(stmt.Else)
		case *ast.While:
			walkExpr(stmt.Condition)
			walkStmt(stmt.Body)
		case *ast.Function:
			for _, inner := range *stmt.Body {
				walkStmt(inner)
			}
		case *ast.Return:
			walkExpr(stmt.Value)
		}
	}
	for _, s := range stmts {
		walkStmt(s)
	}
	return found
}

func TestResolveClosureDepth(t *testing.T) {
	statements := parseSource(t, `
var a = "global";
{
  var a = "outer";
  {
    var a = "inner";
    print a;
  }
}`)
	depths, errs := Resolve(statements)
	if errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	v := findVariableNamed(statements, "a")
	if v == nil {
		t.Fatal("did not find the innermost read of 'a'")
	}
	if depth, ok := depths[v.ID()]; !ok || depth != 0 {
		t.Errorf("got depth %d, ok=%v, want 0 (same block)", depth, ok)
	}
}

func TestResolveGlobalHasNoDepth(t *testing.T) {
	statements := parseSource(t, `
var a = 1;
print a;`)
	depths, errs := Resolve(statements)
	if errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	v := findVariableNamed(statements, "a")
	if v == nil {
		t.Fatal("did not find the read of 'a'")
	}
	if _, ok := depths[v.ID()]; ok {
		t.Error("global variable read should have no recorded depth")
	}
}

func TestResolveSelfInitializerIsAnError(t *testing.T) {
	statements := parseSource(t, `
var a = "outer";
{
  var a = a;
}`)
	_, errs := Resolve(statements)
	if !errs.HasErrors() {
		t.Fatal("expected an error reading a local variable in its own initializer")
	}
}

func TestResolveThisOutsideClassIsAnError(t *testing.T) {
	statements := parseSource(t, `print this;`)
	_, errs := Resolve(statements)
	if !errs.HasErrors() {
		t.Fatal("expected an error using 'this' outside of a class")
	}
}

func TestResolveSuperWithoutSuperclassIsAnError(t *testing.T) {
	statements := parseSource(t, `
class A {
  method() { return super.method(); }
}`)
	_, errs := Resolve(statements)
	if !errs.HasErrors() {
		t.Fatal("expected an error using 'super' in a class with no superclass")
	}
}

func TestResolveReturnOutsideFunctionIsAnError(t *testing.T) {
	statements := parseSource(t, `return 1;`)
	_, errs := Resolve(statements)
	if !errs.HasErrors() {
		t.Fatal("expected an error returning from top-level code")
	}
}

func TestResolveBreakPolicyDeferredAllowsOutOfLoopBreak(t *testing.T) {
	statements := parseSource(t, `break;`)
	_, errs := ResolveWithPolicy(statements, config.BreakDeferred)
	if errs.HasErrors() {
		t.Fatalf("deferred policy should not reject an out-of-loop break at resolve time: %v", errs)
	}
}

func TestResolveBreakPolicyStrictRejectsOutOfLoopBreak(t *testing.T) {
	statements := parseSource(t, `break;`)
	_, errs := ResolveWithPolicy(statements, config.BreakStrict)
	if !errs.HasErrors() {
		t.Fatal("strict policy should reject an out-of-loop break at resolve time")
	}
}

func TestResolveBreakInsideLoopIsAlwaysFine(t *testing.T) {
	statements := parseSource(t, `while (true) { break; }`)
	_, errs := ResolveWithPolicy(statements, config.BreakStrict)
	if errs.HasErrors() {
		t.Fatalf("a break inside a loop must never be rejected: %v", errs)
	}
}
