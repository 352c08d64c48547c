// Package resolver implements the static scope-resolution pass: it walks
// the AST once, after parsing and before interpretation, and for every
// Variable, Assign, This, and Super expression that resolves to a local
// binding records how many enclosing environments the Interpreter must
// skip to reach the frame that declares it. This table is the handshake
// between the Resolver and the Interpreter described by the
// specification; its absence from the map means "resolves in the global
// environment".
package resolver

import (
	"github.com/smbl64/lox/internal/ast"
	"github.com/smbl64/lox/internal/config"
	"github.com/smbl64/lox/internal/diag"
	"github.com/smbl64/lox/internal/token"
)

// functionType tags the kind of function body currently being resolved,
// so `return` can be validated and so methods named "init" are treated as
// initializers.
type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnInitializer
)

// classType tags whether we're inside a class body, and if so whether
// that class has a superclass (which gates `super`).
type classType int

const (
	clsNone classType = iota
	clsClass
	clsSubclass
)

// Depths maps an expression's stable ID (ast.Expr.ID()) to the number of
// enclosing-environment hops the Interpreter must take from its current
// call-frame environment to reach the one declaring that name.
type Depths map[int64]int

// Resolver performs the static pass described above.
type Resolver struct {
	scopes          []map[string]bool
	depths          Depths
	currentFunction functionType
	currentClass    classType
	loopDepth       int
	breakPolicy     config.BreakPolicy
	errs            diag.List
}

// New returns a fresh Resolver using the deferred break policy (an
// out-of-loop break is left for the Interpreter to reject at runtime).
func New() *Resolver {
	return &Resolver{depths: make(Depths), breakPolicy: config.BreakDeferred}
}

// NewWithPolicy returns a fresh Resolver using the given break policy.
func NewWithPolicy(policy config.BreakPolicy) *Resolver {
	return &Resolver{depths: make(Depths), breakPolicy: policy}
}

// Resolve runs the pass over a parsed program using the deferred break
// policy and returns the resulting depth map together with any
// diagnostics. Execution must not proceed if diagnostics is non-empty.
func Resolve(statements []ast.Stmt) (Depths, diag.List) {
	return ResolveWithPolicy(statements, config.BreakDeferred)
}

// ResolveWithPolicy is Resolve, but lets the caller select the
// out-of-loop break policy (the distilled spec's Open Question #1).
func ResolveWithPolicy(statements []ast.Stmt, policy config.BreakPolicy) (Depths, diag.List) {
	r := NewWithPolicy(policy)
	r.resolveStmts(statements)
	return r.depths, r.errs
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(stmt.Statements)
		r.endScope()

	case *ast.Var:
		r.declare(stmt.Name)
		if stmt.Initializer != nil {
			r.resolveExpr(stmt.Initializer)
		}
		r.define(stmt.Name)

	case *ast.Function:
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.resolveFunction(stmt, fnFunction)

	case *ast.Expression:
		r.resolveExpr(stmt.Expr)

	case *ast.If:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}

	case *ast.Print:
		for _, e := range stmt.Expressions {
			r.resolveExpr(e)
		}

	case *ast.Return:
		if r.currentFunction == fnNone {
			r.errorAt(stmt.Keyword, "Can't return from top-level code.")
		}
		if stmt.Value != nil {
			if r.currentFunction == fnInitializer {
				r.errorAt(stmt.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(stmt.Value)
		}

	case *ast.While:
		r.resolveExpr(stmt.Condition)
		r.loopDepth++
		r.resolveStmt(stmt.Body)
		r.loopDepth--

	case *ast.Break:
		// Under BreakStrict an out-of-loop break is rejected here, before
		// the program ever runs. Under BreakDeferred (the default) this
		// is left for the Interpreter to reject only if actually reached.
		if r.loopDepth == 0 && r.breakPolicy == config.BreakStrict {
			r.errorAt(stmt.Keyword, "Can't use 'break' outside of a loop.")
		}

	case *ast.Class:
		r.resolveClass(stmt)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(stmt *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = clsClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.errorAt(stmt.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = clsSubclass
		r.resolveExpr(stmt.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range stmt.Methods {
		declaration := fnMethod
		if method.Name.Lexeme == "init" {
			declaration = fnInitializer
		}
		r.resolveFunction(method, declaration)
	}

	r.endScope() // "this" scope

	if stmt.Superclass != nil {
		r.endScope() // "super" scope
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, typ functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(*fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][expr.Name.Lexeme]; ok && !defined {
				r.errorAt(expr.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(expr, expr.Name)

	case *ast.Assign:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name)

	case *ast.Binary:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)

	case *ast.Logical:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)

	case *ast.Unary:
		r.resolveExpr(expr.Right)

	case *ast.Grouping:
		r.resolveExpr(expr.Expression)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Call:
		r.resolveExpr(expr.Callee)
		for _, a := range expr.Arguments {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(expr.Object)

	case *ast.Set:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)

	case *ast.This:
		if r.currentClass == clsNone {
			r.errorAt(expr.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(expr, expr.Keyword)

	case *ast.Super:
		switch r.currentClass {
		case clsNone:
			r.errorAt(expr.Keyword, "Can't use 'super' outside of a class.")
			return
		case clsClass:
			r.errorAt(expr.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(expr, expr.Keyword)

	default:
		panic("resolver: unhandled expression type")
	}
}

// resolveLocal searches the scope stack from innermost outward for name;
// on the first hit it records the hop count in the depth map. No match
// means the variable is left to resolve against the global environment.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.depths[expr.ID()] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: resolves in the global environment
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.errorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) errorAt(tok token.Token, message string) {
	r.errs = append(r.errs, diag.At(diag.Resolve, tok, message))
}
