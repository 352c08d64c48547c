package interp

import (
	"github.com/smbl64/lox/internal/ast"
)

// Function is a user-defined function or method: the declaration it was
// created from, the environment captured at declaration time (its
// closure), and whether it is a class initializer (which changes its
// return behavior, see Call below).
type Function struct {
	declaration   *ast.Function
	closure       *Environment
	isInitializer bool
}

// NewFunction wraps a parsed function declaration as a callable runtime
// value, closing over env.
func NewFunction(declaration *ast.Function, env *Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: env, isInitializer: isInitializer}
}

// Arity returns the declared parameter count.
func (f *Function) Arity() int { return len(f.declaration.Params) }

// Type and String satisfy Value so a function can be stored, passed
// around, and printed like any other value.
func (f *Function) Type() string { return "FUNCTION" }

func (f *Function) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}

// Call creates a new environment enclosed by the function's closure,
// binds each parameter to its matching argument, and executes the body
// in that environment. A Return interrupt unwinds out of the body and
// supplies the call's result — unless this is an initializer, in which
// case the call always yields the `this` bound at closure depth 0,
// regardless of whether the body returned a bare `return;` or fell off
// the end.
func (f *Function) Call(i *Interpreter, args []Value) (Value, error) {
	env := NewEnclosed(f.closure)
	for idx, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	err := i.executeBlock(*f.declaration.Body, env)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			if f.isInitializer {
				return f.closure.GetAt(0, "this"), nil
			}
			return ret.Value, nil
		}
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return Nil{}, nil
}

// Bind returns a new Function whose closure has been augmented by one
// extra environment binding `this` to instance — the "bound method"
// described by the specification. Retrieving a method via Get and
// invoking it later yields the exact same `this` as calling it directly,
// because the binding happens once, here, rather than at call time.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosed(f.closure)
	env.Define("this", instance)
	return NewFunction(f.declaration, env, f.isInitializer)
}
