// Package jsast defines the JavaScript syntax tree produced for chunk output.
//
// Trees are owned, acyclic values. Expressions and statements are a location
// plus a data node, where the data node is one of a closed set of types
// implementing E or S. Trees are treated as immutable once built: any pass
// that needs a different shape builds new nodes instead of mutating shared
// ones, which lets wrapped module fragments be cached and reused across
// chunks and goroutines.
package jsast

// Loc is the original source position of a node. The zero Loc carries no
// position and produces no source map mapping.
type Loc struct {
	Source string // registered source name
	Line   int    // 1-based
	Column int    // 0-based, in bytes
}

// IsValid reports whether the location points into a source.
func (l Loc) IsValid() bool {
	return l.Line > 0
}

// Expr is an expression node.
type Expr struct {
	Loc  Loc
	Data E
}

// E is implemented by every expression data type.
type E interface{ isExpr() }

func (*EArray) isExpr()      {}
func (*EObject) isExpr()     {}
func (*EString) isExpr()     {}
func (*ENumber) isExpr()     {}
func (*EBoolean) isExpr()    {}
func (*ENull) isExpr()       {}
func (*EUndefined) isExpr()  {}
func (*EIdentifier) isExpr() {}
func (*EDot) isExpr()        {}
func (*EIndex) isExpr()      {}
func (*ECall) isExpr()       {}
func (*EFunction) isExpr()   {}
func (*EBinary) isExpr()     {}

// EArray is an array literal.
type EArray struct {
	Items []Expr
}

// Property is a key/value pair of an object literal.
type Property struct {
	Key   Expr
	Value Expr
}

// EObject is an object literal.
type EObject struct {
	Properties []Property
}

// EString is a string literal. Value holds the decoded string.
type EString struct {
	Value string
}

// ENumber is a numeric literal.
type ENumber struct {
	Value float64
}

// EBoolean is true or false.
type EBoolean struct {
	Value bool
}

// ENull is null.
type ENull struct{}

// EUndefined is void 0.
type EUndefined struct{}

// EIdentifier is a reference to a binding by name.
type EIdentifier struct {
	Name string
}

// EDot is a property access: Target.Name.
type EDot struct {
	Target Expr
	Name   string
}

// EIndex is a computed property access: Target[Index].
type EIndex struct {
	Target Expr
	Index  Expr
}

// ECall is a call expression.
type ECall struct {
	Target Expr
	Args   []Expr
}

// Fn is the shared part of function expressions and declarations.
type Fn struct {
	Name string // empty for anonymous functions
	Args []string
	Body []Stmt
}

// EFunction is a function expression.
type EFunction struct {
	Fn Fn
}

// EBinary is a binary or assignment expression. Op is the operator text.
type EBinary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Stmt is a statement node.
type Stmt struct {
	Loc  Loc
	Data S
}

// S is implemented by every statement data type.
type S interface{ isStmt() }

func (*SExpr) isStmt()     {}
func (*SLocal) isStmt()    {}
func (*SReturn) isStmt()   {}
func (*SBlock) isStmt()    {}
func (*SIf) isStmt()       {}
func (*SFunction) isStmt() {}
func (*SEmpty) isStmt()    {}
func (*SRaw) isStmt()      {}

// SExpr is an expression statement.
type SExpr struct {
	Value Expr
}

// LocalKind is the declaration keyword of a local.
type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

func (k LocalKind) String() string {
	switch k {
	case LocalLet:
		return "let"
	case LocalConst:
		return "const"
	default:
		return "var"
	}
}

// Decl is one binding of a local declaration.
type Decl struct {
	Name  string
	Value *Expr // nil when there is no initializer
}

// SLocal is a var, let or const declaration.
type SLocal struct {
	Kind  LocalKind
	Decls []Decl
}

// SReturn is a return statement.
type SReturn struct {
	Value *Expr
}

// SBlock is a braced block.
type SBlock struct {
	Stmts []Stmt
}

// SIf is an if statement. No is nil when there is no else branch.
type SIf struct {
	Test Expr
	Yes  Stmt
	No   *Stmt
}

// SFunction is a function declaration.
type SFunction struct {
	Fn Fn
}

// SEmpty is a lone semicolon.
type SEmpty struct{}

// SRaw is a statement whose text was produced by an earlier transform stage.
// Code is printed verbatim and must be a complete statement list.
type SRaw struct {
	Code string
	// Mappings locate positions of Code in the original source, sorted by
	// line then column. May be nil.
	Mappings []RawMapping
}

// RawMapping links a position in SRaw.Code to an original location.
type RawMapping struct {
	Line   int // 0-based line in Code
	Column int // 0-based, UTF-16 code units
	Loc    Loc
}

// ModuleItem is a top-level item of a module body: either a Stmt or a
// ModuleDecl.
type ModuleItem interface{ isModuleItem() }

func (Stmt) isModuleItem()           {}
func (*ImportDecl) isModuleItem()    {}
func (*ExportDecl) isModuleItem()    {}
func (*ExportAllDecl) isModuleItem() {}

// ImportDecl is an ES module import declaration.
type ImportDecl struct {
	Loc   Loc
	Path  string
	Names []string
}

// ExportDecl is an ES module export declaration.
type ExportDecl struct {
	Loc   Loc
	Names []string
	Decl  *Stmt
}

// ExportAllDecl is export * from "path".
type ExportAllDecl struct {
	Loc  Loc
	Path string
}

// AsStmt returns item as a statement. Module declarations are not statements.
func AsStmt(item ModuleItem) (Stmt, bool) {
	s, ok := item.(Stmt)
	return s, ok
}

// AST is a module or script.
type AST struct {
	Body []ModuleItem
}

// Stmts returns an AST whose body is exactly stmts.
func Stmts(stmts ...Stmt) AST {
	body := make([]ModuleItem, len(stmts))
	for i, s := range stmts {
		body[i] = s
	}
	return AST{Body: body}
}
