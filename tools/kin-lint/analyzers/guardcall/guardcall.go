// Package guardcall detects database statements issued outside the connection guard.
package guardcall

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports database/sql statements made by a method outside a
// function literal handed to with.
var Analyzer = &analysis.Analyzer{
	Name:     "guardcall",
	Doc:      "detects database/sql statements in methods that bypass the connection guard",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// guardMethod is the name of the method that serializes access to the handle.
const guardMethod = "with"

// handleTypes are the database/sql types that run statements.
var handleTypes = map[string]bool{
	"DB":   true,
	"Conn": true,
	"Tx":   true,
}

// statementMethods are the handle methods that touch the database.
var statementMethods = map[string]bool{
	"Exec":            true,
	"ExecContext":     true,
	"Query":           true,
	"QueryContext":    true,
	"QueryRow":        true,
	"QueryRowContext": true,
	"Prepare":         true,
	"PrepareContext":  true,
	"Begin":           true,
	"BeginTx":         true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.WithStack(nodeFilter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !statementMethods[sel.Sel.Name] {
			return true
		}
		typeName, ok := handleType(pass.TypesInfo.TypeOf(sel.X))
		if !ok {
			return true
		}
		if !inMethod(stack) || guarded(stack) {
			return true
		}

		pass.Reportf(call.Pos(),
			"sql.%s.%s called outside %s - run it inside the guard",
			typeName, sel.Sel.Name, guardMethod)
		return true
	})

	return nil, nil
}

// handleType reports whether t is a pointer to a database/sql handle.
func handleType(t types.Type) (string, bool) {
	ptr, ok := t.(*types.Pointer)
	if !ok {
		return "", false
	}
	named, ok := ptr.Elem().(*types.Named)
	if !ok {
		return "", false
	}
	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != "database/sql" || !handleTypes[obj.Name()] {
		return "", false
	}
	return obj.Name(), true
}

// inMethod reports whether the innermost declaration on the stack has a receiver.
// Plain functions such as scan helpers receive an already guarded handle.
func inMethod(stack []ast.Node) bool {
	for i := len(stack) - 1; i >= 0; i-- {
		if decl, ok := stack[i].(*ast.FuncDecl); ok {
			return decl.Recv != nil
		}
	}
	return false
}

// guarded reports whether some enclosing function literal is an argument to a with call.
func guarded(stack []ast.Node) bool {
	for i := len(stack) - 1; i > 0; i-- {
		lit, ok := stack[i].(*ast.FuncLit)
		if !ok {
			continue
		}
		call, ok := stack[i-1].(*ast.CallExpr)
		if !ok {
			continue
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != guardMethod {
			continue
		}
		for _, arg := range call.Args {
			if arg == lit {
				return true
			}
		}
	}
	return false
}
