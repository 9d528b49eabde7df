// Package noinsecuretls implements an analyzer that forbids hard-coding
// InsecureSkipVerify: true in a crypto/tls.Config.
package noinsecuretls

import (
	"go/ast"
	"go/constant"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports tls.Config values whose InsecureSkipVerify is the
// constant true. Setting it from a variable (a config flag) is allowed,
// so verification can only be switched off explicitly by the operator.
// Test files are skipped.
var Analyzer = &analysis.Analyzer{
	Name:     "noinsecuretls",
	Doc:      "forbid constant InsecureSkipVerify: true in tls.Config",
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

const message = "TLS verification disabled unconditionally; set InsecureSkipVerify from configuration"

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	filter := []ast.Node{(*ast.CompositeLit)(nil), (*ast.AssignStmt)(nil)}
	insp.Preorder(filter, func(n ast.Node) {
		if strings.HasSuffix(pass.Fset.Position(n.Pos()).Filename, "_test.go") {
			return
		}

		switch n := n.(type) {
		case *ast.CompositeLit:
			if !isTLSConfig(pass.TypesInfo.TypeOf(n)) {
				return
			}
			for _, elt := range n.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				if key, ok := kv.Key.(*ast.Ident); ok && key.Name == "InsecureSkipVerify" && isConstTrue(pass, kv.Value) {
					pass.Reportf(kv.Pos(), message)
				}
			}

		case *ast.AssignStmt:
			if len(n.Lhs) != len(n.Rhs) {
				return
			}
			for i, lhs := range n.Lhs {
				sel, ok := lhs.(*ast.SelectorExpr)
				if !ok || sel.Sel.Name != "InsecureSkipVerify" {
					continue
				}
				if isTLSConfig(pass.TypesInfo.TypeOf(sel.X)) && isConstTrue(pass, n.Rhs[i]) {
					pass.Reportf(n.Pos(), message)
				}
			}
		}
	})
	return nil, nil
}

func isTLSConfig(t types.Type) bool {
	if t == nil {
		return false
	}
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "crypto/tls" && obj.Name() == "Config"
}

func isConstTrue(pass *analysis.Pass, e ast.Expr) bool {
	tv, ok := pass.TypesInfo.Types[e]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.Bool {
		return false
	}
	return constant.BoolVal(tv.Value)
}
