package plugins

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/pkg/hashutil"
)

// unsupportedStyleExts are preprocessor languages the build refuses to load.
var unsupportedStyleExts = map[string]bool{
	"less":   true,
	"sass":   true,
	"scss":   true,
	"stylus": true,
}

// Assets turns static files into JavaScript modules exporting their URL.
// Files up to the inline limit become data URLs; larger files are copied to
// the output directory under a content-hashed name.
type Assets struct {
	compiler.Base
}

// Name implements compiler.Plugin.
func (*Assets) Name() string { return "assets" }

// Load implements compiler.Plugin.
func (*Assets) Load(param *compiler.LoadParam, ctx *compiler.Context) (*compiler.Content, error) {
	if unsupportedStyleExts[param.ExtName] {
		return nil, &compiler.UnsupportedExtensionError{ExtName: param.ExtName, Path: param.Path}
	}

	url, err := handleAsset(param.Path, ctx)
	if err != nil {
		return nil, err
	}

	quoted, err := json.Marshal(url)
	if err != nil {
		return nil, err
	}
	return &compiler.Content{
		Kind: compiler.ContentJS,
		Code: fmt.Sprintf("module.exports = %s;", quoted),
	}, nil
}

func handleAsset(path string, ctx *compiler.Context) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the module graph
	if err != nil {
		return "", fmt.Errorf("failed to read asset %s: %w", path, err)
	}

	if len(data) <= ctx.Config.InlineLimit {
		return dataURL(path, data), nil
	}

	hashname := hashedName(filepath.Base(path), hashutil.ContentHash(data))
	dest := filepath.Join(ctx.Config.Output.Path, hashname)
	if err := os.MkdirAll(ctx.Config.Output.Path, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to emit asset %s: %w", hashname, err)
	}

	ctx.Stats.AddAsset(compiler.AssetInfo{
		Kind:     compiler.AssetFile,
		Name:     filepath.Base(path),
		Hashname: hashname,
		Path:     dest,
		Size:     len(data),
	})
	ctx.Logger.Debug("emitted asset", "path", path, "hashname", hashname, "size", len(data))

	return ctx.Config.PublicPath + hashname, nil
}

func dataURL(path string, data []byte) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	// Drop parameters such as "; charset=utf-8"
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// hashedName inserts the first 8 characters of hash before the extension:
// logo.png -> logo.1a2b3c4d.png.
func hashedName(name, hash string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return stem + "." + hash + ext
}
