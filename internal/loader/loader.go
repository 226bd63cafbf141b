// Package loader turns source files into modules ready for chunk generation.
//
// Scripts are transformed to CommonJS with esbuild so their top-level code
// runs inside the module function wrapper. Stylesheets become style modules.
// Every other file type is offered to the plugin driver.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/leapjs/internal/codegen"
	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/internal/config"
	"github.com/leapstack-labs/leapjs/internal/module"
	"github.com/leapstack-labs/leapjs/pkg/hashutil"
	"github.com/leapstack-labs/leapjs/pkg/jsast"
)

// scriptLoaders maps script extensions to the esbuild loader that parses them.
var scriptLoaders = map[string]api.Loader{
	"js":  api.LoaderJS,
	"mjs": api.LoaderJS,
	"cjs": api.LoaderJS,
	"jsx": api.LoaderJSX,
	"ts":  api.LoaderTS,
	"mts": api.LoaderTS,
	"cts": api.LoaderTS,
	"tsx": api.LoaderTSX,
}

// NoLoaderError is returned when neither the loader nor any plugin handles a
// file.
type NoLoaderError struct {
	Path string
}

func (e *NoLoaderError) Error() string {
	return fmt.Sprintf("no loader for %s", e.Path)
}

// Loader builds modules for one build session.
type Loader struct {
	ctx *compiler.Context
}

// New creates a loader for ctx.
func New(ctx *compiler.Context) *Loader {
	return &Loader{ctx: ctx}
}

// ModuleID returns the id of the file at path: its slash separated path
// relative to the project root, prefixed with "./".
func (l *Loader) ModuleID(path string) module.ID {
	rel := path
	if filepath.IsAbs(path) && l.ctx.Config.Root != "" {
		if r, err := filepath.Rel(l.ctx.Config.Root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "./") && !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return module.ID(rel)
}

// Load reads path and builds its module.
func (l *Loader) Load(path string) (*module.Module, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(l.ctx.Config.Root, path)
	}

	id := l.ModuleID(abs)
	ext := strings.TrimPrefix(filepath.Ext(abs), ".")

	if esLoader, ok := scriptLoaders[ext]; ok {
		raw, err := os.ReadFile(abs) //nolint:gosec // paths come from the module graph
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return l.script(id, raw, esLoader)
	}

	if ext == "css" {
		raw, err := os.ReadFile(abs) //nolint:gosec // paths come from the module graph
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return l.style(id, raw, string(raw)), nil
	}

	content, err := l.ctx.PluginDriver.Load(&compiler.LoadParam{Path: abs, ExtName: ext}, l.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if content == nil {
		return nil, &NoLoaderError{Path: path}
	}

	raw := []byte(content.Code)
	if content.Kind == compiler.ContentCSS {
		return l.style(id, raw, content.Code), nil
	}
	return l.script(id, raw, api.LoaderJS)
}

// LoadAll loads every path in order, stopping at the first failure.
func (l *Loader) LoadAll(paths []string) ([]*module.Module, error) {
	modules := make([]*module.Module, 0, len(paths))
	for _, p := range paths {
		m, err := l.Load(p)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func (l *Loader) script(id module.ID, raw []byte, esLoader api.Loader) (*module.Module, error) {
	source := string(id)
	l.ctx.Meta.Sources.Register(source, string(raw))

	opts := api.TransformOptions{
		Loader:     esLoader,
		Format:     api.FormatCommonJS,
		Target:     api.ESNext,
		Sourcefile: source,
		Charset:    api.CharsetUTF8,
		LogLevel:   api.LogLevelSilent,
	}
	wantMap := l.ctx.Config.Devtool != config.DevtoolNone
	if wantMap {
		opts.Sourcemap = api.SourceMapExternal
		opts.SourcesContent = api.SourcesContentExclude
	}

	result := api.Transform(string(raw), opts)
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("failed to transform %s: %w", source, transformError(result.Errors))
	}

	code := strings.TrimRight(string(result.Code), "\n")
	ast := jsast.AST{}
	if code != "" {
		stmt := &jsast.SRaw{Code: code}
		if wantMap && len(result.Map) > 0 {
			mappings, err := rawMappings(result.Map, source)
			if err != nil {
				return nil, fmt.Errorf("failed to transform %s: %w", source, err)
			}
			stmt.Mappings = mappings
		}
		ast = jsast.Stmts(jsast.Stmt{
			Loc:  jsast.Loc{Source: source, Line: 1},
			Data: stmt,
		})
	}

	l.ctx.Logger.Debug("loaded script", "id", source, "bytes", len(raw))
	return module.Script(id, ast, hashutil.ContentHash(raw), hashutil.String(code)), nil
}

// rawMappings converts esbuild's transform map into mappings onto the
// module's own source.
func rawMappings(sourceMap []byte, source string) ([]jsast.RawMapping, error) {
	decoded, err := codegen.DecodeSourceMap(sourceMap)
	if err != nil {
		return nil, err
	}
	mappings := make([]jsast.RawMapping, len(decoded))
	for i, m := range decoded {
		mappings[i] = jsast.RawMapping{
			Line:   m.GeneratedLine,
			Column: m.GeneratedColumn,
			Loc:    jsast.Loc{Source: source, Line: m.OriginalLine + 1, Column: m.OriginalColumn},
		}
	}
	return mappings, nil
}

func (l *Loader) style(id module.ID, raw []byte, source string) *module.Module {
	l.ctx.Meta.Sources.Register(string(id), source)
	l.ctx.Logger.Debug("loaded style", "id", string(id), "bytes", len(raw))
	return module.Style(id, source, hashutil.ContentHash(raw), hashutil.String(source))
}

func transformError(msgs []api.Message) error {
	var errMsg string
	for _, m := range msgs {
		if m.Location != nil {
			errMsg += fmt.Sprintf("%s:%d:%d: %s\n", m.Location.File, m.Location.Line, m.Location.Column, m.Text)
		} else {
			errMsg += m.Text + "\n"
		}
	}
	return fmt.Errorf("esbuild errors:\n%s", errMsg)
}
