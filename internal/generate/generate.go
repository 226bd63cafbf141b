// Package generate writes a build's chunks, runtime and source maps to the
// output directory and reports them to plugins.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapjs/internal/chunkpot"
	"github.com/leapstack-labs/leapjs/internal/codegen"
	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/internal/config"
	"github.com/leapstack-labs/leapjs/internal/module"
	"github.com/leapstack-labs/leapjs/internal/runtime"
	"github.com/leapstack-labs/leapjs/pkg/hashutil"
)

// RuntimeName is the logical name of the runtime file.
const RuntimeName = "runtime.js"

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

// Generate emits every pot in parallel, then the runtime, then runs the
// BuildSuccess hooks. The first failure cancels the remaining work and is
// returned.
func Generate(ctx context.Context, comp *compiler.Context, pots []*module.ChunkPot) (*compiler.StatsJSON, error) {
	cfg := comp.Config
	start := time.Now()

	if err := os.MkdirAll(cfg.Output.Path, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	eg, egctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		eg.SetLimit(cfg.Concurrency)
	}

	for _, pot := range pots {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			return writeChunk(comp, pot)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := writeRuntime(comp); err != nil {
		return nil, err
	}

	stats := comp.Stats.ToJSON(time.Now())
	comp.Logger.Info("generated chunks",
		"chunks", len(pots),
		"assets", len(stats.Assets),
		"duration", time.Since(start))

	if err := comp.PluginDriver.BuildSuccess(stats, comp); err != nil {
		return nil, err
	}
	return stats, nil
}

func writeChunk(comp *compiler.Context, pot *module.ChunkPot) error {
	ast, err := chunkpot.BuildChunkModule(comp, pot)
	if err != nil {
		return fmt.Errorf("chunk %s: %w", pot.ChunkID, err)
	}

	name := fileNameReplacer.Replace(pot.ChunkID) + ".js"
	code, sourceMap, err := codegen.EmitFile(ast, comp, name)
	if err != nil {
		return fmt.Errorf("chunk %s: %w", pot.ChunkID, err)
	}

	hashname := hashedName(name, code)
	if err := writeScript(comp, compiler.AssetChunk, name, hashname, code, sourceMap); err != nil {
		return fmt.Errorf("chunk %s: %w", pot.ChunkID, err)
	}

	ids := pot.SortedIDs()
	modules := make([]string, len(ids))
	for i, id := range ids {
		modules[i] = string(id)
	}
	comp.Stats.AddChunk(compiler.ChunkInfo{ID: pot.ChunkID, Hashname: hashname, Modules: modules})

	comp.Logger.Debug("wrote chunk", "id", pot.ChunkID, "file", hashname, "modules", len(modules))
	return nil
}

func writeRuntime(comp *compiler.Context) error {
	code, err := runtime.Code(comp)
	if err != nil {
		return err
	}
	// The chunk file table changes with every build, so it stays out of
	// the runtime cache.
	files, err := runtime.ChunkFilesCode(comp.Stats.ChunkFiles())
	if err != nil {
		return fmt.Errorf("runtime: %w", err)
	}
	code = strings.TrimRight(code, "\n") + "\n" + files
	hashname := hashedName(RuntimeName, []byte(code))
	if err := writeScript(comp, compiler.AssetRuntime, RuntimeName, hashname, []byte(code), nil); err != nil {
		return fmt.Errorf("runtime: %w", err)
	}
	comp.Logger.Debug("wrote runtime", "file", hashname)
	return nil
}

// writeScript writes code and its source map according to the devtool
// setting and records both in the build stats.
func writeScript(comp *compiler.Context, kind compiler.AssetKind, name, hashname string, code, sourceMap []byte) error {
	out := comp.Config.Output.Path

	if sourceMap != nil {
		switch comp.Config.Devtool {
		case config.DevtoolInlineSourceMap:
			code = appendComment(code, codegen.InlineSourceMapComment(sourceMap))
		case config.DevtoolSourceMap:
			mapName := hashname + ".map"
			mapPath := filepath.Join(out, mapName)
			if err := os.WriteFile(mapPath, sourceMap, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", mapName, err)
			}
			comp.Stats.AddAsset(compiler.AssetInfo{
				Kind:     compiler.AssetSourceMap,
				Name:     name + ".map",
				Hashname: mapName,
				Path:     mapPath,
				Size:     len(sourceMap),
			})
			code = appendComment(code, codegen.SourceMapURLComment(mapName))
		}
	}

	path := filepath.Join(out, hashname)
	if err := os.WriteFile(path, code, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", hashname, err)
	}
	comp.Stats.AddAsset(compiler.AssetInfo{
		Kind:     kind,
		Name:     name,
		Hashname: hashname,
		Path:     path,
		Size:     len(code),
	})
	return nil
}

// hashedName inserts the first 8 characters of the content hash of code
// before the extension: main.js -> main.a1b2c3d4.js.
func hashedName(name string, code []byte) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hashutil.ContentHash(code)[:8] + ext
}

func appendComment(code []byte, comment string) []byte {
	out := make([]byte, 0, len(code)+len(comment)+1)
	out = append(out, code...)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return append(out, comment...)
}
