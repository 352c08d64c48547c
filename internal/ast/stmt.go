package ast

import "github.com/smbl64/lox/internal/token"

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// Expression is a bare expression statement; its value is discarded.
type Expression struct {
	Expr Expr
}

// Print evaluates every expression in order and writes each immediately,
// followed by a single trailing newline.
type Print struct {
	Expressions []Expr
}

// Var is a `var name = initializer;` declaration. Initializer is nil when
// the declaration has no initializer (the variable starts as Nil).
type Var struct {
	Name        token.Token
	Initializer Expr
}

// Block is `{ statements... }`, executed in a fresh enclosing environment.
type Block struct {
	Statements []Stmt
}

// If is `if (condition) Then else Else`. Else is nil when there is no
// else-branch.
type If struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

// While is `while (condition) Body`.
type While struct {
	Condition Expr
	Body      Stmt
}

// Break is a `break;` statement.
type Break struct {
	Keyword token.Token
}

// Function is a `fun name(params) { body }` declaration, or a method
// inside a class body. Body is a pointer to a shared slice so that the
// *Function runtime value created from this declaration and the AST node
// it came from reference the exact same statement list rather than a
// copy of it.
type Function struct {
	Name   token.Token
	Params []token.Token
	Body   *[]Stmt
}

// Return is `return;` or `return value;`. Value is nil for the bare form.
type Return struct {
	Keyword token.Token
	Value   Expr
}

// Class is a `class Name < Superclass { methods... }` declaration.
// Superclass is nil when there is no `< Superclass` clause.
type Class struct {
	Name       token.Token
	Superclass *Variable
	Methods    []*Function
}

func (s *Expression) stmtNode() {}
func (s *Print) stmtNode()      {}
func (s *Var) stmtNode()        {}
func (s *Block) stmtNode()      {}
func (s *If) stmtNode()         {}
func (s *While) stmtNode()      {}
func (s *Break) stmtNode()      {}
func (s *Function) stmtNode()   {}
func (s *Return) stmtNode()     {}
func (s *Class) stmtNode()      {}
