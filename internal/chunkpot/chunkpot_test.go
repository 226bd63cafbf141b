package chunkpot

import (
	"testing"

	"github.com/leapstack-labs/leapjs/internal/codegen"
	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/internal/config"
	"github.com/leapstack-labs/leapjs/internal/module"
	"github.com/leapstack-labs/leapjs/pkg/hashutil"
	"github.com/leapstack-labs/leapjs/pkg/jsast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptModule(id module.ID, name string, value float64) *module.Module {
	src := string(id) + name
	return module.Script(id, jsast.Stmts(jsast.Var(name, jsast.Number(value))), hashutil.ContentHash([]byte(src)), hashutil.String(src))
}

func printMinified(ast jsast.AST) string {
	return string(codegen.Print(ast, codegen.PrintOptions{Minify: true}).Code)
}

func TestWrapModule_Script(t *testing.T) {
	m := scriptModule("./a.js", "x", 1)

	fn, err := WrapModule(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"module", "exports", "require"}, fn.Fn.Args)
	require.Len(t, fn.Fn.Body, 1)
}

func TestWrapModule_Style(t *testing.T) {
	tests := []string{"", ".a { color: red }", "@import 'b.css';"}

	for _, src := range tests {
		m := module.Style("./a.css", src, hashutil.ContentHash([]byte(src)), 1)

		fn, err := WrapModule(m)
		require.NoError(t, err)
		assert.Equal(t, []string{"module", "exports", "require"}, fn.Fn.Args)
		assert.Empty(t, fn.Fn.Body)
	}
}

func TestWrapModule_NoAst(t *testing.T) {
	for _, ast := range []module.Ast{module.NoAst, nil} {
		m := &module.Module{ID: "./broken.js", Ast: ast, ContentHash: "h"}

		_, err := WrapModule(m)
		require.Error(t, err)

		var astErr *module.InvalidModuleAstError
		require.ErrorAs(t, err, &astErr)
		assert.Equal(t, module.ID("./broken.js"), astErr.ModuleID)
	}
}

func TestWrapModule_NonStatement(t *testing.T) {
	ast := jsast.AST{Body: []jsast.ModuleItem{
		jsast.Var("x", jsast.Number(1)),
		&jsast.ImportDecl{Path: "./dep.js"},
	}}
	m := module.Script("./esm.js", ast, "h", 1)

	_, err := WrapModule(m)
	var astErr *module.InvalidModuleAstError
	require.ErrorAs(t, err, &astErr)
	assert.Equal(t, module.ID("./esm.js"), astErr.ModuleID)
}

func TestToModuleFn_Idempotent(t *testing.T) {
	ctx := compiler.NewContext(nil)

	// Distinct instances with identical fingerprints
	a := scriptModule("./a.js", "x", 1)
	b := scriptModule("./a.js", "x", 1)
	require.NotSame(t, a, b)

	fnA, err := ToModuleFn(ctx, a)
	require.NoError(t, err)
	fnB, err := ToModuleFn(ctx, b)
	require.NoError(t, err)

	printFn := func(fn jsast.EFunction) string {
		return printMinified(jsast.Stmts(jsast.Var("f", jsast.Expr{Data: &fn})))
	}
	assert.Equal(t, printFn(fnA), printFn(fnB))
	assert.Equal(t, 1, ctx.WrapperCache.Len())
	assert.Equal(t, uint64(1), ctx.WrapperCache.Stats().Hits)
}

func TestToModuleFn_ErrorNotCached(t *testing.T) {
	ctx := compiler.NewContext(nil)
	m := &module.Module{ID: "./broken.js", Ast: module.NoAst, ContentHash: "h"}

	_, err := ToModuleFn(ctx, m)
	require.Error(t, err)
	assert.Equal(t, 0, ctx.WrapperCache.Len())
}

func TestBuildChunkModule_EndToEnd(t *testing.T) {
	ctx := compiler.NewContext(nil)

	pot := module.NewChunkPot("main")
	pot.Add(scriptModule("./b.js", "y", 2))
	pot.Add(scriptModule("./a.js", "x", 1))

	ast, err := BuildChunkModule(ctx, pot)
	require.NoError(t, err)
	require.Len(t, ast.Body, 1)

	want := `globalThis.jsonpCallback([["main"],{"./a.js":function(module,exports,require){var x=1;},"./b.js":function(module,exports,require){var y=2;}}])`
	assert.Equal(t, want, printMinified(ast))
}

func TestBuildChunkModule_OrderIndependent(t *testing.T) {
	modules := []*module.Module{
		scriptModule("./a.js", "a", 1),
		scriptModule("./b.js", "b", 2),
		scriptModule("./c/index.js", "c", 3),
		scriptModule("./c.js", "d", 4),
		module.Style("./style.css", ".x{}", "style", 5),
	}

	permutations := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{3, 4, 0, 2, 1},
	}

	cfg := config.Default()
	cfg.Devtool = config.DevtoolNone

	var outputs []string
	for _, perm := range permutations {
		// Fresh session per permutation so caching cannot mask ordering
		ctx := compiler.NewContext(cfg)
		pot := module.NewChunkPot("main")
		for _, i := range perm {
			pot.Add(modules[i])
		}

		ast, err := BuildChunkModule(ctx, pot)
		require.NoError(t, err)
		code, _, err := codegen.Emit(ast, ctx)
		require.NoError(t, err)
		outputs = append(outputs, string(code))
	}

	for _, out := range outputs[1:] {
		assert.Equal(t, outputs[0], out)
	}
}

func TestBuildModuleObject_SortedKeys(t *testing.T) {
	ctx := compiler.NewContext(nil)
	pot := module.NewChunkPot("vendors")
	for _, id := range []module.ID{"./z.js", "./B.js", "./a.js"} {
		pot.Add(scriptModule(id, "v", 0))
	}

	obj, err := BuildModuleObject(ctx, pot)
	require.NoError(t, err)

	props := obj.Data.(*jsast.EObject).Properties
	var keys []string
	for _, p := range props {
		keys = append(keys, p.Key.Data.(*jsast.EString).Value)
	}
	assert.Equal(t, []string{"./B.js", "./a.js", "./z.js"}, keys)
}

func TestBuildChunkModule_FailingModuleAbortsChunk(t *testing.T) {
	ctx := compiler.NewContext(nil)
	pot := module.NewChunkPot("main")
	pot.Add(scriptModule("./a.js", "x", 1))
	pot.Add(&module.Module{ID: "./broken.js", Ast: module.NoAst, ContentHash: "h"})

	ast, err := BuildChunkModule(ctx, pot)
	require.Error(t, err)
	assert.Empty(t, ast.Body)

	var astErr *module.InvalidModuleAstError
	require.ErrorAs(t, err, &astErr)
	assert.Equal(t, module.ID("./broken.js"), astErr.ModuleID)
}
