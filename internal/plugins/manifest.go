package plugins

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/leapstack-labs/leapjs/internal/compiler"
)

// keyHashPattern matches the content hash segment of an emitted file name.
var keyHashPattern = regexp.MustCompile(`[a-fA-F0-9]{8}\.?`)

// Manifest writes a JSON file mapping logical asset names to emitted file
// names once the build succeeds. It does nothing unless manifest output is
// configured.
type Manifest struct {
	compiler.Base
}

// Name implements compiler.Plugin.
func (*Manifest) Name() string { return "manifest" }

// BuildSuccess implements compiler.Plugin.
func (*Manifest) BuildSuccess(stats *compiler.StatsJSON, ctx *compiler.Context) error {
	cfg := ctx.Config.Manifest
	if cfg == nil {
		return nil
	}

	data, err := BuildManifest(stats.Assets, cfg.BasePath)
	if err != nil {
		return err
	}

	dest := filepath.Join(ctx.Config.Output.Path, cfg.FileName)
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", dest, err)
	}

	ctx.Logger.Debug("wrote manifest", "path", dest, "entries", len(stats.Assets))
	return nil
}

// BuildManifest renders the manifest for assets as pretty printed JSON with
// sorted keys.
func BuildManifest(assets []compiler.AssetInfo, basePath string) ([]byte, error) {
	prefix := normalizePath(basePath)

	entries := make(map[string]string, len(assets))
	for _, a := range assets {
		entries[prefix+removeKeyHash(a.Hashname)] = a.Hashname
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// normalizePath appends a trailing slash to a non-empty base path.
func normalizePath(path string) string {
	if path != "" && path[len(path)-1] != '/' {
		return path + "/"
	}
	return path
}

func removeKeyHash(name string) string {
	return keyHashPattern.ReplaceAllString(name, "")
}
