package codegen

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/internal/config"
	"github.com/leapstack-labs/leapjs/pkg/jsast"
)

// Emit serializes ast using the session configuration. It returns the code
// and, unless devtool is "none", the source map. No mappings are recorded
// at all when source maps are disabled.
//
// Printed output is passed through esbuild when minification applies or the
// target language level is below esnext. The printer's own source map is
// chained through that pass.
func Emit(ast jsast.AST, ctx *compiler.Context) ([]byte, []byte, error) {
	return EmitFile(ast, ctx, "")
}

// EmitFile is like Emit and records file as the source map's "file" field.
func EmitFile(ast jsast.AST, ctx *compiler.Context, file string) ([]byte, []byte, error) {
	cfg := ctx.Config
	minify := cfg.ShouldMinify()
	wantMap := cfg.Devtool != config.DevtoolNone

	printed := Print(ast, PrintOptions{
		Minify:    minify,
		SourceMap: wantMap,
		Comments:  ctx.Meta.Comments,
	})

	var sourceMap []byte
	if wantMap {
		var err error
		sourceMap, err = BuildSourceMap(file, printed.Mappings, ctx.Meta.Sources)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build source map: %w", err)
		}
	}

	if !needsTransform(cfg) {
		return printed.Code, sourceMap, nil
	}

	code, transformedMap, err := transform(string(printed.Code), sourceMap, cfg, file)
	if err != nil {
		return nil, nil, err
	}
	if endsWithOmittableSemi(ast) {
		code = strings.TrimSuffix(code, ";")
	}
	return []byte(code), transformedMap, nil
}

func needsTransform(cfg *config.Config) bool {
	return cfg.ShouldMinify() || !strings.EqualFold(cfg.Output.ESVersion, "esnext")
}

// transform runs esbuild over printed code.
func transform(code string, sourceMap []byte, cfg *config.Config, file string) (string, []byte, error) {
	minify := cfg.ShouldMinify()

	opts := api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            esTarget(cfg.Output.ESVersion),
		Charset:           api.CharsetUTF8,
		LegalComments:     api.LegalCommentsInline,
		MinifyWhitespace:  minify,
		MinifySyntax:      minify,
		MinifyIdentifiers: minify,
		LogLevel:          api.LogLevelSilent,
	}

	if sourceMap != nil {
		// esbuild picks up the inline map of its input and composes it with
		// the map of its own output.
		code = code + "\n" + InlineSourceMapComment(sourceMap)
		opts.Sourcemap = api.SourceMapExternal
		opts.Sourcefile = file
		opts.SourcesContent = api.SourcesContentInclude
	}

	result := api.Transform(code, opts)
	if len(result.Errors) > 0 {
		var errMsg string
		for _, err := range result.Errors {
			if err.Location != nil {
				errMsg += fmt.Sprintf("%d:%d: %s\n", err.Location.Line, err.Location.Column, err.Text)
			} else {
				errMsg += err.Text + "\n"
			}
		}
		return "", nil, fmt.Errorf("esbuild errors:\n%s", errMsg)
	}

	out := strings.TrimRight(string(result.Code), "\n")
	if sourceMap == nil {
		return out, nil, nil
	}
	return out, result.Map, nil
}

// endsWithOmittableSemi reports whether the final top-level statement may
// lose its semicolon without changing meaning.
func endsWithOmittableSemi(ast jsast.AST) bool {
	if len(ast.Body) == 0 {
		return false
	}
	s, ok := jsast.AsStmt(ast.Body[len(ast.Body)-1])
	if !ok {
		return false
	}
	switch s.Data.(type) {
	case *jsast.SExpr, *jsast.SLocal, *jsast.SReturn:
		return true
	}
	return false
}

func esTarget(version string) api.Target {
	switch strings.ToLower(version) {
	case "es2015":
		return api.ES2015
	case "es2016":
		return api.ES2016
	case "es2017":
		return api.ES2017
	case "es2018":
		return api.ES2018
	case "es2019":
		return api.ES2019
	case "es2020":
		return api.ES2020
	case "es2021":
		return api.ES2021
	case "es2022":
		return api.ES2022
	case "es2023":
		return api.ES2023
	case "es2024":
		return api.ES2024
	default:
		return api.ESNext
	}
}
