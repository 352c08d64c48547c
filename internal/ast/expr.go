package ast

import "github.com/smbl64/lox/internal/token"

// Expr is implemented by every expression node. exprNode is unexported so
// only types in this package can satisfy the interface.
type Expr interface {
	exprNode()
	// ID returns the node's stable identity, used by the resolver to key
	// its scope-depth map.
	ID() int64
}

// Binary is a binary operator expression: Left OP Right.
type Binary struct {
	NodeID   int64
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Logical is `and`/`or`, which short-circuit and therefore cannot share
// Binary's unconditional eager-evaluation semantics.
type Logical struct {
	NodeID   int64
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Unary is a prefix operator expression: OP Right.
type Unary struct {
	NodeID   int64
	Operator token.Token
	Right    Expr
}

// Grouping is a parenthesized expression, kept as its own node (rather than
// collapsed away) so error messages and AST dumps reflect the source.
type Grouping struct {
	NodeID     int64
	Expression Expr
}

// Literal is a literal value: nil, a bool, a float64, or a string.
type Literal struct {
	NodeID int64
	Value  any
}

// Variable is a read of a named binding.
type Variable struct {
	NodeID int64
	Name   token.Token
}

// Assign is `name = value`.
type Assign struct {
	NodeID int64
	Name   token.Token
	Value  Expr
}

// Call is `callee(arguments...)`. Paren is the closing ')' token, recorded
// so runtime errors (arity mismatch, non-callable callee) can report a
// line number.
type Call struct {
	NodeID    int64
	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

// Get is `object.name`, a property or method read.
type Get struct {
	NodeID int64
	Object Expr
	Name   token.Token
}

// Set is `object.name = value`.
type Set struct {
	NodeID int64
	Object Expr
	Name   token.Token
	Value  Expr
}

// This is the `this` keyword used inside a method body.
type This struct {
	NodeID  int64
	Keyword token.Token
}

// Super is `super.method`.
type Super struct {
	NodeID  int64
	Keyword token.Token
	Method  token.Token
}

func (e *Binary) exprNode()   {}
func (e *Logical) exprNode()  {}
func (e *Unary) exprNode()    {}
func (e *Grouping) exprNode() {}
func (e *Literal) exprNode()  {}
func (e *Variable) exprNode() {}
func (e *Assign) exprNode()   {}
func (e *Call) exprNode()     {}
func (e *Get) exprNode()      {}
func (e *Set) exprNode()      {}
func (e *This) exprNode()     {}
func (e *Super) exprNode()    {}

func (e *Binary) ID() int64   { return e.NodeID }
func (e *Logical) ID() int64  { return e.NodeID }
func (e *Unary) ID() int64    { return e.NodeID }
func (e *Grouping) ID() int64 { return e.NodeID }
func (e *Literal) ID() int64  { return e.NodeID }
func (e *Variable) ID() int64 { return e.NodeID }
func (e *Assign) ID() int64   { return e.NodeID }
func (e *Call) ID() int64     { return e.NodeID }
func (e *Get) ID() int64      { return e.NodeID }
func (e *Set) ID() int64      { return e.NodeID }
func (e *This) ID() int64     { return e.NodeID }
func (e *Super) ID() int64    { return e.NodeID }

// NewBinary constructs a Binary expression with a fresh ID.
func NewBinary(left Expr, operator token.Token, right Expr) *Binary {
	return &Binary{NodeID: nextID(), Left: left, Operator: operator, Right: right}
}

// NewLogical constructs a Logical expression with a fresh ID.
func NewLogical(left Expr, operator token.Token, right Expr) *Logical {
	return &Logical{NodeID: nextID(), Left: left, Operator: operator, Right: right}
}

// NewUnary constructs a Unary expression with a fresh ID.
func NewUnary(operator token.Token, right Expr) *Unary {
	return &Unary{NodeID: nextID(), Operator: operator, Right: right}
}

// NewGrouping constructs a Grouping expression with a fresh ID.
func NewGrouping(inner Expr) *Grouping {
	return &Grouping{NodeID: nextID(), Expression: inner}
}

// NewLiteral constructs a Literal expression with a fresh ID.
func NewLiteral(value any) *Literal {
	return &Literal{NodeID: nextID(), Value: value}
}

// NewVariable constructs a Variable expression with a fresh ID.
func NewVariable(name token.Token) *Variable {
	return &Variable{NodeID: nextID(), Name: name}
}

// NewAssign constructs an Assign expression with a fresh ID.
func NewAssign(name token.Token, value Expr) *Assign {
	return &Assign{NodeID: nextID(), Name: name, Value: value}
}

// NewCall constructs a Call expression with a fresh ID.
func NewCall(callee Expr, paren token.Token, args []Expr) *Call {
	return &Call{NodeID: nextID(), Callee: callee, Paren: paren, Arguments: args}
}

// NewGet constructs a Get expression with a fresh ID.
func NewGet(object Expr, name token.Token) *Get {
	return &Get{NodeID: nextID(), Object: object, Name: name}
}

// NewSet constructs a Set expression with a fresh ID.
func NewSet(object Expr, name token.Token, value Expr) *Set {
	return &Set{NodeID: nextID(), Object: object, Name: name, Value: value}
}

// NewThis constructs a This expression with a fresh ID.
func NewThis(keyword token.Token) *This {
	return &This{NodeID: nextID(), Keyword: keyword}
}

// NewSuper constructs a Super expression with a fresh ID.
func NewSuper(keyword, method token.Token) *Super {
	return &Super{NodeID: nextID(), Keyword: keyword, Method: method}
}
