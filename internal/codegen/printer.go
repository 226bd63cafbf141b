// Package codegen serializes syntax trees into JavaScript text and source
// maps.
package codegen

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/pkg/jsast"
)

// PrintOptions controls the printer.
type PrintOptions struct {
	// Minify prints without optional whitespace and drops non-legal comments.
	Minify bool
	// SourceMap records a mapping for every positioned node.
	SourceMap bool
	// Comments supplies comments attached to node locations. May be nil.
	Comments *compiler.Comments
}

// PrintResult is the printed text and the mappings recorded while printing.
type PrintResult struct {
	Code     []byte
	Mappings []Mapping
}

// Mapping links a generated position to an original one.
type Mapping struct {
	GeneratedLine   int // 0-based
	GeneratedColumn int // 0-based, UTF-16 code units
	Source          string
	OriginalLine    int // 0-based
	OriginalColumn  int
}

type printer struct {
	opts     PrintOptions
	sb       strings.Builder
	indent   int
	line     int
	column   int
	mappings []Mapping
}

// Print serializes ast. The final top-level statement is printed without
// its trailing semicolon.
func Print(ast jsast.AST, opts PrintOptions) PrintResult {
	p := &printer{opts: opts}

	last := len(ast.Body) - 1
	for i, item := range ast.Body {
		switch it := item.(type) {
		case jsast.Stmt:
			p.printStmt(it, i == last)
		case *jsast.ImportDecl:
			p.printImport(it, i == last)
		case *jsast.ExportAllDecl:
			p.printExportAll(it, i == last)
		case *jsast.ExportDecl:
			p.printExport(it, i == last)
		}
	}

	return PrintResult{Code: []byte(p.sb.String()), Mappings: p.mappings}
}

func (p *printer) print(s string) {
	p.sb.WriteString(s)
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r == '\n' {
			p.line++
			p.column = 0
			continue
		}
		p.column += utf16.RuneLen(r)
	}
}

func (p *printer) space() {
	if !p.opts.Minify {
		p.print(" ")
	}
}

func (p *printer) newline() {
	if !p.opts.Minify {
		p.print("\n")
	}
}

func (p *printer) printIndent() {
	if !p.opts.Minify {
		p.print(strings.Repeat("  ", p.indent))
	}
}

func (p *printer) addMapping(loc jsast.Loc) {
	p.addMappingAt(p.column, loc)
}

// addMappingAt records loc at column of the current line. Columns must not
// decrease within a line.
func (p *printer) addMappingAt(column int, loc jsast.Loc) {
	if !p.opts.SourceMap || !loc.IsValid() {
		return
	}
	if n := len(p.mappings); n > 0 {
		last := p.mappings[n-1]
		if last.GeneratedLine == p.line && last.GeneratedColumn >= column {
			return
		}
	}
	p.mappings = append(p.mappings, Mapping{
		GeneratedLine:   p.line,
		GeneratedColumn: column,
		Source:          loc.Source,
		OriginalLine:    loc.Line - 1,
		OriginalColumn:  loc.Column,
	})
}

func (p *printer) printComments(comments []compiler.Comment) {
	for _, c := range comments {
		if p.opts.Minify {
			// Only legal comments survive minification
			if strings.HasPrefix(c.Text, "/*!") {
				p.print(c.Text)
			}
			continue
		}
		p.printIndent()
		p.print(c.Text)
		p.print("\n")
	}
}

func (p *printer) leadingComments(loc jsast.Loc) {
	if p.opts.Comments == nil || !loc.IsValid() {
		return
	}
	p.printComments(p.opts.Comments.Leading(loc))
}

func (p *printer) trailingComments(loc jsast.Loc) {
	if p.opts.Comments == nil || !loc.IsValid() {
		return
	}
	for _, c := range p.opts.Comments.Trailing(loc) {
		if p.opts.Minify {
			if strings.HasPrefix(c.Text, "/*!") {
				p.print(c.Text)
			}
			continue
		}
		p.print(" ")
		p.print(c.Text)
	}
}

// semicolon ends a statement. omit is set for the last top-level statement.
func (p *printer) semicolon(omit bool) {
	if !omit {
		p.print(";")
	}
}

func (p *printer) printStmt(s jsast.Stmt, omitSemi bool) {
	p.leadingComments(s.Loc)
	p.printIndent()
	p.addMapping(s.Loc)

	switch d := s.Data.(type) {
	case *jsast.SExpr:
		if startsWithFunctionOrObject(d.Value) {
			p.print("(")
			p.printExpr(d.Value)
			p.print(")")
		} else {
			p.printExpr(d.Value)
		}
		p.semicolon(omitSemi)

	case *jsast.SLocal:
		p.print(d.Kind.String())
		p.print(" ")
		for i, decl := range d.Decls {
			if i > 0 {
				p.print(",")
				p.space()
			}
			p.print(decl.Name)
			if decl.Value != nil {
				p.space()
				p.print("=")
				p.space()
				p.printExpr(*decl.Value)
			}
		}
		p.semicolon(omitSemi)

	case *jsast.SReturn:
		p.print("return")
		if d.Value != nil {
			p.print(" ")
			p.printExpr(*d.Value)
		}
		p.semicolon(omitSemi)

	case *jsast.SBlock:
		p.printBlock(d.Stmts)

	case *jsast.SIf:
		p.printIf(d)

	case *jsast.SFunction:
		p.printFn(d.Fn)

	case *jsast.SEmpty:
		p.print(";")

	case *jsast.SRaw:
		p.printRaw(d)
	}

	p.trailingComments(s.Loc)
	p.newline()
}

// printRaw prints raw code line by line at the current indentation and
// shifts its mappings to where each line lands.
func (p *printer) printRaw(raw *jsast.SRaw) {
	code := strings.TrimRight(raw.Code, " \t\r\n")
	next := 0
	for i, line := range strings.Split(code, "\n") {
		if i > 0 {
			p.print("\n")
			if line != "" {
				p.printIndent()
			}
		}
		for ; next < len(raw.Mappings) && raw.Mappings[next].Line <= i; next++ {
			if m := raw.Mappings[next]; m.Line == i {
				p.addMappingAt(p.column+m.Column, m.Loc)
			}
		}
		p.print(line)
	}
}

// printBlock prints { stmts } starting at the current position.
func (p *printer) printBlock(stmts []jsast.Stmt) {
	p.print("{")
	if len(stmts) == 0 {
		p.print("}")
		return
	}
	p.newline()
	p.indent++
	for _, s := range stmts {
		p.printStmt(s, false)
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printBody(s jsast.Stmt) {
	if b, ok := s.Data.(*jsast.SBlock); ok {
		p.printBlock(b.Stmts)
		return
	}
	p.printBlock([]jsast.Stmt{s})
}

func (p *printer) printIf(d *jsast.SIf) {
	p.print("if")
	p.space()
	p.print("(")
	p.printExpr(d.Test)
	p.print(")")
	p.space()
	p.printBody(d.Yes)

	if d.No == nil {
		return
	}
	p.space()
	p.print("else")
	if elseIf, ok := d.No.Data.(*jsast.SIf); ok {
		p.print(" ")
		p.printIf(elseIf)
		return
	}
	p.space()
	p.printBody(*d.No)
}

func (p *printer) printFn(fn jsast.Fn) {
	p.print("function")
	if fn.Name != "" {
		p.print(" ")
		p.print(fn.Name)
	}
	p.print("(")
	for i, arg := range fn.Args {
		if i > 0 {
			p.print(",")
			p.space()
		}
		p.print(arg)
	}
	p.print(")")
	p.space()
	p.printBlock(fn.Body)
}

func (p *printer) printExpr(e jsast.Expr) {
	p.addMapping(e.Loc)

	switch d := e.Data.(type) {
	case *jsast.EString:
		p.print(quoteString(d.Value))

	case *jsast.ENumber:
		p.print(formatNumber(d.Value))

	case *jsast.EBoolean:
		p.print(strconv.FormatBool(d.Value))

	case *jsast.ENull:
		p.print("null")

	case *jsast.EUndefined:
		p.print("void 0")

	case *jsast.EIdentifier:
		p.print(d.Name)

	case *jsast.EDot:
		p.printCallee(d.Target)
		p.print(".")
		p.print(d.Name)

	case *jsast.EIndex:
		p.printCallee(d.Target)
		p.print("[")
		p.printExpr(d.Index)
		p.print("]")

	case *jsast.ECall:
		p.printCallee(d.Target)
		p.print("(")
		for i, arg := range d.Args {
			if i > 0 {
				p.print(",")
				p.space()
			}
			p.printExpr(arg)
		}
		p.print(")")

	case *jsast.EArray:
		p.print("[")
		for i, item := range d.Items {
			if i > 0 {
				p.print(",")
				p.space()
			}
			p.printExpr(item)
		}
		p.print("]")

	case *jsast.EObject:
		p.printObject(d)

	case *jsast.EFunction:
		p.printFn(d.Fn)

	case *jsast.EBinary:
		p.printOperand(d.Left)
		switch {
		case isWordOperator(d.Op):
			p.print(" " + d.Op + " ")
		case p.opts.Minify && signCollides(d.Op, d.Right):
			// a - -1 must not become a--1
			p.print(d.Op + " ")
		default:
			p.space()
			p.print(d.Op)
			p.space()
		}
		if d.Op == "=" {
			p.printExpr(d.Right)
		} else {
			p.printOperand(d.Right)
		}
	}
}

func (p *printer) printObject(d *jsast.EObject) {
	p.print("{")
	if len(d.Properties) == 0 {
		p.print("}")
		return
	}
	p.newline()
	p.indent++
	for i, prop := range d.Properties {
		p.printIndent()
		p.addMapping(prop.Key.Loc)
		switch k := prop.Key.Data.(type) {
		case *jsast.EIdentifier:
			p.print(k.Name)
		case *jsast.EString:
			p.print(quoteString(k.Value))
		default:
			p.print("[")
			p.printExpr(prop.Key)
			p.print("]")
		}
		p.print(":")
		p.space()
		p.printExpr(prop.Value)
		if i < len(d.Properties)-1 {
			p.print(",")
		}
		p.newline()
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

// printCallee parenthesizes targets that would otherwise parse differently
// in member or call position.
func (p *printer) printCallee(e jsast.Expr) {
	switch e.Data.(type) {
	case *jsast.EFunction, *jsast.EObject, *jsast.EBinary, *jsast.ENumber:
		p.print("(")
		p.printExpr(e)
		p.print(")")
	default:
		p.printExpr(e)
	}
}

func (p *printer) printOperand(e jsast.Expr) {
	if _, ok := e.Data.(*jsast.EBinary); ok {
		p.print("(")
		p.printExpr(e)
		p.print(")")
		return
	}
	p.printExpr(e)
}

func (p *printer) printImport(d *jsast.ImportDecl, omitSemi bool) {
	p.printIndent()
	p.addMapping(d.Loc)
	p.print("import")
	if len(d.Names) > 0 {
		p.space()
		p.print("{")
		p.print(strings.Join(d.Names, ","))
		p.print("}")
		p.space()
		p.print("from")
	}
	p.space()
	p.print(quoteString(d.Path))
	p.semicolon(omitSemi)
	p.newline()
}

func (p *printer) printExportAll(d *jsast.ExportAllDecl, omitSemi bool) {
	p.printIndent()
	p.addMapping(d.Loc)
	p.print("export*from")
	p.space()
	p.print(quoteString(d.Path))
	p.semicolon(omitSemi)
	p.newline()
}

func (p *printer) printExport(d *jsast.ExportDecl, omitSemi bool) {
	if d.Decl != nil {
		p.printIndent()
		p.addMapping(d.Loc)
		p.print("export ")
		saved := p.indent
		p.indent = 0
		p.printStmt(*d.Decl, omitSemi)
		p.indent = saved
		return
	}
	p.printIndent()
	p.addMapping(d.Loc)
	p.print("export")
	p.space()
	p.print("{")
	p.print(strings.Join(d.Names, ","))
	p.print("}")
	p.semicolon(omitSemi)
	p.newline()
}

// startsWithFunctionOrObject reports whether printing e as a statement would
// begin with "function" or "{", which the parser would read as a declaration
// or block.
func startsWithFunctionOrObject(e jsast.Expr) bool {
	for {
		switch d := e.Data.(type) {
		case *jsast.EFunction, *jsast.EObject:
			return true
		case *jsast.ECall:
			e = d.Target
		case *jsast.EDot:
			e = d.Target
		case *jsast.EIndex:
			e = d.Target
		case *jsast.EBinary:
			e = d.Left
		default:
			return false
		}
	}
}

// signCollides reports whether right, printed directly after op, starts with
// the same sign character and would merge with it into ++ or --.
func signCollides(op string, right jsast.Expr) bool {
	if op != "-" && op != "+" {
		return false
	}
	n, ok := right.Data.(*jsast.ENumber)
	return ok && strings.HasPrefix(formatNumber(n.Value), op)
}

func isWordOperator(op string) bool {
	return op == "in" || op == "instanceof"
}

// quoteString returns s as a double-quoted JavaScript string literal.
// Non-ASCII characters are written as-is; only characters that cannot
// appear raw in a string literal are escaped.
func quoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\u2028':
			sb.WriteString(`\u2028`)
		case '\u2029':
			sb.WriteString(`\u2029`)
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(`\x`)
				sb.WriteString(strconv.FormatInt(int64(r)>>4, 16))
				sb.WriteString(strconv.FormatInt(int64(r)&0xf, 16))
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.Abs(v) < 1e21:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
