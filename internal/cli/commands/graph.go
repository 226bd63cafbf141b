package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultGraphFile is the chunk graph read by build when --graph is not set.
const DefaultGraphFile = "leapjs.graph.yaml"

// Graph describes the chunks a build generates.
type Graph struct {
	Chunks []ChunkSpec `yaml:"chunks"`
}

// ChunkSpec lists the module files of one chunk. Paths are relative to the
// project root.
type ChunkSpec struct {
	ID      string   `yaml:"id"`
	Modules []string `yaml:"modules"`
}

// LoadGraph reads and validates a chunk graph file. Unknown fields are
// rejected.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied graph file
	if err != nil {
		return nil, fmt.Errorf("failed to read graph %s: %w", path, err)
	}

	var g Graph
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid graph %s: %w", path, err)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph %s: %w", path, err)
	}
	return &g, nil
}

// Validate checks that chunk ids are present and unique.
func (g *Graph) Validate() error {
	if len(g.Chunks) == 0 {
		return errors.New("no chunks defined")
	}
	seen := make(map[string]bool, len(g.Chunks))
	for i, c := range g.Chunks {
		if c.ID == "" {
			return fmt.Errorf("chunk %d has no id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate chunk id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
