// Package chunkpot turns a chunk pot into the syntax tree of a loadable
// chunk: every module becomes a function(module, exports, require) and the
// functions are registered through the runtime's jsonp callback.
package chunkpot

import (
	"fmt"

	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/internal/module"
	"github.com/leapstack-labs/leapjs/pkg/jsast"
)

// moduleFnArgs are the parameters every wrapped module receives from the
// runtime, in call order.
var moduleFnArgs = []string{"module", "exports", "require"}

// EmptyModuleFn returns a module function with no body.
func EmptyModuleFn() jsast.EFunction {
	return jsast.EFunction{Fn: jsast.Fn{Args: moduleFnArgs, Body: []jsast.Stmt{}}}
}

// ToModuleFn wraps m into a module function, memoized in the session's
// wrapper cache under the module's content and raw hash.
func ToModuleFn(ctx *compiler.Context, m *module.Module) (jsast.EFunction, error) {
	return ctx.WrapperCache.GetOrInsert(m.CacheKey(), func() (jsast.EFunction, error) {
		return WrapModule(m)
	})
}

// WrapModule wraps m into a module function without consulting any cache.
func WrapModule(m *module.Module) (jsast.EFunction, error) {
	switch ast := m.Ast.(type) {
	case *module.ScriptAst:
		stmts := make([]jsast.Stmt, 0, len(ast.AST.Body))
		for i, item := range ast.AST.Body {
			stmt, ok := jsast.AsStmt(item)
			if !ok {
				return jsast.EFunction{}, &module.InvalidModuleAstError{
					ModuleID: m.ID,
					Reason:   fmt.Sprintf("top-level item %d (%T) is not a statement", i, item),
				}
			}
			stmts = append(stmts, stmt)
		}
		return jsast.EFunction{Fn: jsast.Fn{Args: moduleFnArgs, Body: stmts}}, nil

	case *module.StyleAst:
		// Style modules keep an empty placeholder until style support is
		// removed from chunks.
		return EmptyModuleFn(), nil

	default:
		return jsast.EFunction{}, &module.InvalidModuleAstError{ModuleID: m.ID, Reason: "module has no ast"}
	}
}
