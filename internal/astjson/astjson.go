// Package astjson serializes the parser's AST (and the resolver's depth
// map) to JSON without a parallel struct tree. Because ast.Expr and
// ast.Stmt are closed sum types whose variants carry very different
// fields, building the document incrementally with sjson — one field
// set per node kind — is a better fit than a single struct with every
// variant's fields (which encoding/json would have to represent as a
// tagged union anyway) or a parallel visitor-built map[string]any tree.
// Queries against the resulting document use gjson.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/smbl64/lox/internal/ast"
	"github.com/smbl64/lox/internal/resolver"
)

// Program renders a parsed program as a JSON array of statement nodes.
func Program(statements []ast.Stmt) (string, error) {
	doc := "[]"
	for _, s := range statements {
		node, err := marshalStmt(s)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "-1", node)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// Query evaluates a gjson path against a document produced by Program or
// Depths, returning the raw matched JSON (or "" if nothing matched).
func Query(doc, path string) string {
	result := gjson.Get(doc, path)
	if !result.Exists() {
		return ""
	}
	return result.Raw
}

// Depths renders a resolver depth map keyed by a stable, reproducible
// label for each expression rather than its raw internal ID (which is
// process-lifetime-global and would make two runs over the same program
// produce different-looking output). Labels contain '@' and '#', which
// are meaningful in gjson/sjson path syntax, so this builds a flat Go map
// and marshals it directly rather than assembling the document through
// sjson's path-based Set.
func Depths(statements []ast.Stmt, depths resolver.Depths) (string, error) {
	labels := labelExprs(statements)

	byLabel := make(map[string]int)
	for _, s := range statements {
		walkExprs(s, func(e ast.Expr) {
			if depth, ok := depths[e.ID()]; ok {
				byLabel[labels[e.ID()]] = depth
			}
		})
	}

	out, err := json.Marshal(byLabel)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func marshalExpr(e ast.Expr) (string, error) {
	if e == nil {
		return "null", nil
	}

	doc := "{}"
	set := func(path string, value any) {
		doc, _ = sjson.Set(doc, path, value)
	}
	setRaw := func(path, raw string) {
		doc, _ = sjson.SetRaw(doc, path, raw)
	}

	set("id", e.ID())

	switch expr := e.(type) {
	case *ast.Literal:
		set("kind", "Literal")
		set("value", fmt.Sprintf("%v", expr.Value))

	case *ast.Variable:
		set("kind", "Variable")
		set("name", expr.Name.Lexeme)
		set("line", expr.Name.Line)

	case *ast.Assign:
		set("kind", "Assign")
		set("name", expr.Name.Lexeme)
		set("line", expr.Name.Line)
		value, err := marshalExpr(expr.Value)
		if err != nil {
			return "", err
		}
		setRaw("value", value)

	case *ast.Binary:
		set("kind", "Binary")
		set("operator", expr.Operator.Lexeme)
		set("line", expr.Operator.Line)
		left, err := marshalExpr(expr.Left)
		if err != nil {
			return "", err
		}
		right, err := marshalExpr(expr.Right)
		if err != nil {
			return "", err
		}
		setRaw("left", left)
		setRaw("right", right)

	case *ast.Logical:
		set("kind", "Logical")
		set("operator", expr.Operator.Lexeme)
		set("line", expr.Operator.Line)
		left, err := marshalExpr(expr.Left)
		if err != nil {
			return "", err
		}
		right, err := marshalExpr(expr.Right)
		if err != nil {
			return "", err
		}
		setRaw("left", left)
		setRaw("right", right)

	case *ast.Unary:
		set("kind", "Unary")
		set("operator", expr.Operator.Lexeme)
		set("line", expr.Operator.Line)
		right, err := marshalExpr(expr.Right)
		if err != nil {
			return "", err
		}
		setRaw("right", right)

	case *ast.Grouping:
		set("kind", "Grouping")
		inner, err := marshalExpr(expr.Expression)
		if err != nil {
			return "", err
		}
		setRaw("expression", inner)

	case *ast.Call:
		set("kind", "Call")
		set("line", expr.Paren.Line)
		callee, err := marshalExpr(expr.Callee)
		if err != nil {
			return "", err
		}
		setRaw("callee", callee)
		args := "[]"
		for _, a := range expr.Arguments {
			argJSON, err := marshalExpr(a)
			if err != nil {
				return "", err
			}
			args, _ = sjson.SetRaw(args, "-1", argJSON)
		}
		setRaw("arguments", args)

	case *ast.Get:
		set("kind", "Get")
		set("name", expr.Name.Lexeme)
		set("line", expr.Name.Line)
		object, err := marshalExpr(expr.Object)
		if err != nil {
			return "", err
		}
		setRaw("object", object)

	case *ast.Set:
		set("kind", "Set")
		set("name", expr.Name.Lexeme)
		set("line", expr.Name.Line)
		object, err := marshalExpr(expr.Object)
		if err != nil {
			return "", err
		}
		value, err := marshalExpr(expr.Value)
		if err != nil {
			return "", err
		}
		setRaw("object", object)
		setRaw("value", value)

	case *ast.This:
		set("kind", "This")
		set("line", expr.Keyword.Line)

	case *ast.Super:
		set("kind", "Super")
		set("method", expr.Method.Lexeme)
		set("line", expr.Keyword.Line)

	default:
		return "", fmt.Errorf("astjson: unhandled expression type %T", e)
	}

	return doc, nil
}

func marshalStmt(s ast.Stmt) (string, error) {
	doc := "{}"
	set := func(path string, value any) {
		doc, _ = sjson.Set(doc, path, value)
	}
	setRaw := func(path, raw string) {
		doc, _ = sjson.SetRaw(doc, path, raw)
	}
	exprField := func(path string, e ast.Expr) error {
		if e == nil {
			return nil
		}
		node, err := marshalExpr(e)
		if err != nil {
			return err
		}
		setRaw(path, node)
		return nil
	}

	switch stmt := s.(type) {
	case *ast.Expression:
		set("kind", "Expression")
		if err := exprField("expression", stmt.Expr); err != nil {
			return "", err
		}

	case *ast.Print:
		set("kind", "Print")
		args := "[]"
		for _, e := range stmt.Expressions {
			node, err := marshalExpr(e)
			if err != nil {
				return "", err
			}
			args, _ = sjson.SetRaw(args, "-1", node)
		}
		setRaw("expressions", args)

	case *ast.Var:
		set("kind", "Var")
		set("name", stmt.Name.Lexeme)
		set("line", stmt.Name.Line)
		if err := exprField("initializer", stmt.Initializer); err != nil {
			return "", err
		}

	case *ast.Block:
		set("kind", "Block")
		body, err := marshalStmts(stmt.Statements)
		if err != nil {
			return "", err
		}
		setRaw("statements", body)

	case *ast.If:
		set("kind", "If")
		if err := exprField("condition", stmt.Condition); err != nil {
			return "", err
		}
		then, err := marshalStmt(stmt.Then)
		if err != nil {
			return "", err
		}
		setRaw("then", then)
		if stmt.Else != nil {
			elseDoc, err := marshalStmt(stmt.Else)
			if err != nil {
				return "", err
			}
			setRaw("else", elseDoc)
		}

	case *ast.While:
		set("kind", "While")
		if err := exprField("condition", stmt.Condition); err != nil {
			return "", err
		}
		body, err := marshalStmt(stmt.Body)
		if err != nil {
			return "", err
		}
		setRaw("body", body)

	case *ast.Break:
		set("kind", "Break")
		set("line", stmt.Keyword.Line)

	case *ast.Function:
		set("kind", "Function")
		set("name", stmt.Name.Lexeme)
		set("line", stmt.Name.Line)
		params := make([]string, len(stmt.Params))
		for i, p := range stmt.Params {
			params[i] = p.Lexeme
		}
		set("params", params)
		body, err := marshalStmts(*stmt.Body)
		if err != nil {
			return "", err
		}
		setRaw("body", body)

	case *ast.Return:
		set("kind", "Return")
		set("line", stmt.Keyword.Line)
		if err := exprField("value", stmt.Value); err != nil {
			return "", err
		}

	case *ast.Class:
		set("kind", "Class")
		set("name", stmt.Name.Lexeme)
		set("line", stmt.Name.Line)
		if stmt.Superclass != nil {
			set("superclass", stmt.Superclass.Name.Lexeme)
		}
		methods := "[]"
		for _, m := range stmt.Methods {
			node, err := marshalStmt(m)
			if err != nil {
				return "", err
			}
			methods, _ = sjson.SetRaw(methods, "-1", node)
		}
		setRaw("methods", methods)

	default:
		return "", fmt.Errorf("astjson: unhandled statement type %T", s)
	}

	return doc, nil
}

func marshalStmts(statements []ast.Stmt) (string, error) {
	doc := "[]"
	for _, s := range statements {
		node, err := marshalStmt(s)
		if err != nil {
			return "", err
		}
		var err2 error
		doc, err2 = sjson.SetRaw(doc, "-1", node)
		if err2 != nil {
			return "", err2
		}
	}
	return doc, nil
}

// labelExprs assigns every expression reachable from statements a label
// of the form "Kind@line#N", where N disambiguates nodes that share both
// kind and line (walked in a fixed, deterministic pre-order).
func labelExprs(statements []ast.Stmt) map[int64]string {
	counts := make(map[string]int)
	labels := make(map[int64]string)

	assign := func(e ast.Expr) {
		kind := exprKind(e)
		line := exprLine(e)
		key := fmt.Sprintf("%s@%d", kind, line)
		n := counts[key]
		counts[key] = n + 1
		labels[e.ID()] = fmt.Sprintf("%s#%d", key, n)
	}

	for _, s := range statements {
		walkExprs(s, assign)
	}
	return labels
}

func exprKind(e ast.Expr) string {
	switch e.(type) {
	case *ast.Binary:
		return "Binary"
	case *ast.Logical:
		return "Logical"
	case *ast.Unary:
		return "Unary"
	case *ast.Grouping:
		return "Grouping"
	case *ast.Literal:
		return "Literal"
	case *ast.Variable:
		return "Variable"
	case *ast.Assign:
		return "Assign"
	case *ast.Call:
		return "Call"
	case *ast.Get:
		return "Get"
	case *ast.Set:
		return "Set"
	case *ast.This:
		return "This"
	case *ast.Super:
		return "Super"
	default:
		return "Unknown"
	}
}

func exprLine(e ast.Expr) int {
	switch expr := e.(type) {
	case *ast.Variable:
		return expr.Name.Line
	case *ast.Assign:
		return expr.Name.Line
	case *ast.Binary:
		return expr.Operator.Line
	case *ast.Logical:
		return expr.Operator.Line
	case *ast.Unary:
		return expr.Operator.Line
	case *ast.Call:
		return expr.Paren.Line
	case *ast.Get:
		return expr.Name.Line
	case *ast.Set:
		return expr.Name.Line
	case *ast.This:
		return expr.Keyword.Line
	case *ast.Super:
		return expr.Keyword.Line
	default:
		return 0
	}
}

// walkExprs visits every expression node reachable from a statement,
// including nested statements (blocks, if/while bodies, function and
// method bodies), calling visit on each in a fixed pre-order.
func walkExprs(s ast.Stmt, visit func(ast.Expr)) {
	var walkExpr func(ast.Expr)
	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		visit(e)
		switch expr := e.(type) {
		case *ast.Binary:
			walkExpr(expr.Left)
			walkExpr(expr.Right)
		case *ast.Logical:
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
		case *ast.Get:
			walkExpr(expr.Object)
		case *ast.Set:
			walkExpr(expr.Object)
			walkExpr(expr.Value)
		}
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
			walkExprs(inner, visit)
		}
	case *ast.If:
		walkExpr(stmt.Condition)
		walkExprs(stmt.Then, visit)
		if stmt.Else != nil {
			walkExprs(stmt.Else, visit)
		}
	case *ast.While:
		walkExpr(stmt.Condition)
		walkExprs(stmt.Body, visit)
	case *ast.Function:
		for _, inner := range *stmt.Body {
			walkExprs(inner, visit)
		}
	case *ast.Return:
		walkExpr(stmt.Value)
	case *ast.Class:
		for _, m := range stmt.Methods {
			walkExprs(m, visit)
		}
	}
}
