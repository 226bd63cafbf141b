package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/leapjs/internal/generate"
	"github.com/leapstack-labs/leapjs/internal/loader"
	"github.com/leapstack-labs/leapjs/internal/module"
	"github.com/spf13/cobra"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Graph string
	JSON  bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate chunks, the runtime and side artifacts",
		Long: `Load the modules listed in the chunk graph, package each chunk into the
jsonp wire format and write the chunks, the runtime bootstrap and their source
maps to the output directory.

Plugins run after a successful build (e.g. the asset manifest).`,
		Example: `  # Build with leapjs.graph.yaml from the project root
  leapjs build

  # Production build with minification
  leapjs build --mode production --minify

  # Print build stats as JSON
  leapjs build --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Graph, "graph", "g", DefaultGraphFile, "Chunk graph file")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print build stats as JSON")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	start := time.Now()

	graphPath := opts.Graph
	if !filepath.IsAbs(graphPath) {
		graphPath = filepath.Join(cfg.Root, graphPath)
	}
	graph, err := LoadGraph(graphPath)
	if err != nil {
		return err
	}

	ld := loader.New(cmdCtx.Session)
	pots := make([]*module.ChunkPot, 0, len(graph.Chunks))
	for _, spec := range graph.Chunks {
		modules, err := ld.LoadAll(spec.Modules)
		if err != nil {
			return fmt.Errorf("chunk %s: %w", spec.ID, err)
		}
		pot := module.NewChunkPot(spec.ID)
		for _, m := range modules {
			pot.Add(m)
		}
		pots = append(pots, pot)
	}
	cmdCtx.Logger.Debug("loaded chunk graph", "graph", graphPath, "chunks", len(pots))

	stats, err := generate.Generate(cmd.Context(), cmdCtx.Session, pots)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	r := cmdCtx.Renderer
	r.AssetTable(stats.Assets)
	r.Println("")
	r.Success(fmt.Sprintf("Built %d chunks into %s in %s",
		len(stats.Chunks), cfg.Output.Path, time.Since(start).Round(time.Millisecond)))
	return nil
}
