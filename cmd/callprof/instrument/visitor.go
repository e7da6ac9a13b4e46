package instrument

import (
	"go/ast"
	"go/token"
	"strconv"
)

// Reasons a function was left alone.
const (
	ReasonDefer        = "defers other cleanup"
	ReasonInstrumented = "already instrumented"
	ReasonInit         = "init function"
	ReasonUnexported   = "unexported"
)

// Skip records a function that was not instrumented.
type Skip struct {
	Func   string
	Reason string
}

// Stats summarizes one file.
type Stats struct {
	Instrumented int
	Skipped      []Skip
}

type visitor struct {
	alias string
	opts  Options
	stats Stats
}

func newVisitor(alias string, opts Options) *visitor {
	return &visitor{alias: alias, opts: opts}
}

// visit instruments fn if it is eligible.
func (v *visitor) visit(fn *ast.FuncDecl) {
	if fn.Body == nil {
		// Declared in assembly.
		return
	}

	name := funcName(fn)

	switch {
	case fn.Recv == nil && fn.Name.Name == "init":
		v.skip(name, ReasonInit)
	case v.opts.ExportedOnly && !fn.Name.IsExported():
		v.skip(name, ReasonUnexported)
	case v.instrumented(fn.Body):
		v.skip(name, ReasonInstrumented)
	case hasDefer(fn.Body):
		v.skip(name, ReasonDefer)
	default:
		fn.Body.List = append([]ast.Stmt{v.marker(name)}, fn.Body.List...)
		v.stats.Instrumented++
	}
}

func (v *visitor) skip(name, reason string) {
	v.stats.Skipped = append(v.stats.Skipped, Skip{Func: name, Reason: reason})
}

// marker builds `defer <alias>.End(<alias>.Begin("<tag>"))`.
func (v *visitor) marker(tag string) ast.Stmt {
	begin := &ast.CallExpr{
		Fun:  &ast.SelectorExpr{X: ast.NewIdent(v.alias), Sel: ast.NewIdent("Begin")},
		Args: []ast.Expr{&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(tag)}},
	}

	return &ast.DeferStmt{
		Call: &ast.CallExpr{
			Fun:  &ast.SelectorExpr{X: ast.NewIdent(v.alias), Sel: ast.NewIdent("End")},
			Args: []ast.Expr{begin},
		},
	}
}

// instrumented reports whether body already starts with a marker.
func (v *visitor) instrumented(body *ast.BlockStmt) bool {
	if len(body.List) == 0 {
		return false
	}

	d, ok := body.List[0].(*ast.DeferStmt)
	if !ok || !v.isCall(d.Call, "End") || len(d.Call.Args) != 1 {
		return false
	}

	inner, ok := d.Call.Args[0].(*ast.CallExpr)
	return ok && v.isCall(inner, "Begin")
}

func (v *visitor) isCall(call *ast.CallExpr, name string) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	id, ok := sel.X.(*ast.Ident)
	return ok && id.Name == v.alias
}

// hasDefer reports whether body defers anything outside function literals.
func hasDefer(body *ast.BlockStmt) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.DeferStmt:
			found = true
		}
		return !found
	})
	return found
}

// funcName returns "Func" or "Recv.Method", without pointer or type
// parameters on the receiver.
func funcName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}

	typ := fn.Recv.List[0].Type
	for {
		switch t := typ.(type) {
		case *ast.StarExpr:
			typ = t.X
			continue
		case *ast.IndexExpr:
			typ = t.X
			continue
		case *ast.IndexListExpr:
			typ = t.X
			continue
		case *ast.ParenExpr:
			typ = t.X
			continue
		case *ast.Ident:
			return t.Name + "." + fn.Name.Name
		}
		return fn.Name.Name
	}
}
