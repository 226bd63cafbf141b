// Package runtime assembles the bootstrap script every chunk depends on.
//
// The bootstrap installs globalThis.jsonpCallback, which receives chunks in
// the form [[chunkId], { moduleId: function(module, exports, require) {} }],
// and a require function that instantiates registered modules on demand.
package runtime

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapjs/internal/compiler"
)

// InjectMarker is replaced by the code plugins contribute to the runtime.
const InjectMarker = "// __inject_runtime_code__"

// UMDNamePlaceholder is replaced by the configured UMD library name.
const UMDNamePlaceholder = "_%umd_name%_"

//go:embed runtime_entry.js
var entryTemplate string

//go:embed runtime_umd.js
var umdTemplate string

// RuntimeHookError is returned when a plugin's runtime hook fails.
type RuntimeHookError struct {
	Err error
}

func (e *RuntimeHookError) Error() string {
	return fmt.Sprintf("failed to assemble runtime: %v", e.Err)
}

func (e *RuntimeHookError) Unwrap() error {
	return e.Err
}

// Code returns the runtime for the session's configuration. The result is
// cached under the configuration fingerprint, so plugin runtime hooks run
// once per distinct configuration.
func Code(ctx *compiler.Context) (string, error) {
	return ctx.RuntimeCache.GetOrInsert(ctx.ConfigHash, func() (string, error) {
		return assemble(ctx)
	})
}

func assemble(ctx *compiler.Context) (string, error) {
	injected, err := ctx.PluginDriver.RuntimePluginsCode(ctx)
	if err != nil {
		return "", &RuntimeHookError{Err: err}
	}

	content := strings.Replace(entryTemplate, InjectMarker, injected, 1)

	if ctx.Config.UMDEnabled() {
		content += strings.ReplaceAll(umdTemplate, UMDNamePlaceholder, ctx.Config.UMD)
	}

	ctx.Logger.Debug("assembled runtime",
		"config_hash", fmt.Sprintf("%016x", ctx.ConfigHash),
		"bytes", len(content),
		"umd", ctx.Config.UMDEnabled())

	return content, nil
}

// ChunkFilesCode returns a statement telling the runtime which file holds
// each chunk, so requireModule.ensure requests hashed file names.
func ChunkFilesCode(files map[string]string) (string, error) {
	// json.Marshal sorts map keys
	data, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("failed to encode chunk files: %w", err)
	}
	return "requireModule.chunkFiles = " + string(data) + ";\n", nil
}
