package jsast

import "strings"

// Ident returns an identifier expression.
func Ident(name string) Expr {
	return Expr{Data: &EIdentifier{Name: name}}
}

// String returns a string literal expression.
func String(s string) Expr {
	return Expr{Data: &EString{Value: s}}
}

// Number returns a numeric literal expression.
func Number(v float64) Expr {
	return Expr{Data: &ENumber{Value: v}}
}

// Member builds a dotted member chain from a path such as
// "globalThis.jsonpCallback".
func Member(path string) Expr {
	parts := strings.Split(path, ".")
	e := Ident(parts[0])
	for _, name := range parts[1:] {
		e = Expr{Data: &EDot{Target: e, Name: name}}
	}
	return e
}

// Call returns target(args...).
func Call(target Expr, args ...Expr) Expr {
	return Expr{Data: &ECall{Target: target, Args: args}}
}

// Array returns an array literal.
func Array(items ...Expr) Expr {
	return Expr{Data: &EArray{Items: items}}
}

// Assign returns left = right.
func Assign(left, right Expr) Expr {
	return Expr{Data: &EBinary{Op: "=", Left: left, Right: right}}
}

// ExprStmt wraps e as an expression statement.
func ExprStmt(e Expr) Stmt {
	return Stmt{Loc: e.Loc, Data: &SExpr{Value: e}}
}

// Var returns `var name = value;`.
func Var(name string, value Expr) Stmt {
	return Stmt{Data: &SLocal{Kind: LocalVar, Decls: []Decl{{Name: name, Value: &value}}}}
}

// At returns s positioned at loc.
func (s Stmt) At(loc Loc) Stmt {
	s.Loc = loc
	return s
}
