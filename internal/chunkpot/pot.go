package chunkpot

import (
	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/internal/module"
	"github.com/leapstack-labs/leapjs/pkg/jsast"
)

// JSONPCallback is the global the runtime installs to receive chunks.
const JSONPCallback = "globalThis.jsonpCallback"

// BuildModuleObject returns { "<module id>": function(module, exports, require) {...}, ... }
// with keys in ascending module id order, independent of insertion order.
func BuildModuleObject(ctx *compiler.Context, pot *module.ChunkPot) (jsast.Expr, error) {
	ids := pot.SortedIDs()
	props := make([]jsast.Property, 0, len(ids))

	for _, id := range ids {
		m, _ := pot.Get(id)
		fn, err := ToModuleFn(ctx, m)
		if err != nil {
			return jsast.Expr{}, err
		}

		props = append(props, jsast.Property{
			Key:   jsast.String(string(id)),
			Value: jsast.Expr{Data: &fn},
		})
	}

	return jsast.Expr{Data: &jsast.EObject{Properties: props}}, nil
}

// BuildChunkModule returns the chunk as a single statement:
//
//	globalThis.jsonpCallback([["<chunk id>"], { module object }])
//
// Any module that cannot be wrapped fails the whole chunk.
func BuildChunkModule(ctx *compiler.Context, pot *module.ChunkPot) (jsast.AST, error) {
	moduleObject, err := BuildModuleObject(ctx, pot)
	if err != nil {
		return jsast.AST{}, err
	}

	call := jsast.Call(
		jsast.Member(JSONPCallback),
		jsast.Array(
			jsast.Array(jsast.String(pot.ChunkID)),
			moduleObject,
		),
	)

	return jsast.Stmts(jsast.ExprStmt(call)), nil
}
