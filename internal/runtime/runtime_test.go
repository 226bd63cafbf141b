package runtime

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/leapstack-labs/leapjs/internal/config"
	"github.com/leapstack-labs/leapjs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPlugin struct {
	compiler.Base
	code  string
	err   error
	calls atomic.Int32
}

func (p *countingPlugin) Name() string { return "counting" }

func (p *countingPlugin) RuntimePlugins(*compiler.Context) (string, error) {
	p.calls.Add(1)
	return p.code, p.err
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, 1, strings.Count(entryTemplate, InjectMarker))
	assert.Contains(t, umdTemplate, UMDNamePlaceholder)
}

func TestChunkFilesCode(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "empty",
			files: map[string]string{},
			want:  "requireModule.chunkFiles = {};\n",
		},
		{
			name:  "sorted by chunk id",
			files: map[string]string{"vendor": "vendor.22222222.js", "main": "main.11111111.js"},
			want:  `requireModule.chunkFiles = {"main":"main.11111111.js","vendor":"vendor.22222222.js"};` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChunkFilesCode(tt.files)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Contains(t, entryTemplate, "requireModule.chunkFiles[chunkId] || chunkId + '.js'")
}

func TestCode_InjectsPluginCode(t *testing.T) {
	p := &countingPlugin{code: "requireModule.answer = 42;"}
	ctx := compiler.NewContext(config.Default(), compiler.WithPlugins(p), compiler.WithLogger(testutil.NewTestLogger(t)))

	code, err := Code(ctx)
	require.NoError(t, err)

	assert.Contains(t, code, "requireModule.answer = 42;")
	assert.NotContains(t, code, InjectMarker)
	assert.Contains(t, code, "globalThis.jsonpCallback = jsonpCallback")
	assert.NotContains(t, code, "define.amd", "umd is disabled by default")
}

func TestCode_UMD(t *testing.T) {
	cfg := config.Default()
	cfg.UMD = "MyLib"
	ctx := compiler.NewContext(cfg)

	code, err := Code(ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, entryTemplate[:40]))
	assert.Contains(t, code, "define.amd")
	assert.Contains(t, code, "exports['MyLib']")
	assert.Contains(t, code, "root['MyLib']")
	assert.NotContains(t, code, UMDNamePlaceholder)
}

func TestCode_CachedPerConfig(t *testing.T) {
	p := &countingPlugin{code: "x();"}
	ctx := compiler.NewContext(config.Default(), compiler.WithPlugins(p))

	first, err := Code(ctx)
	require.NoError(t, err)
	second, err := Code(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), p.calls.Load(), "hook must run once per fingerprint")

	// A different configuration in the same session misses the cache
	ctx.Config = config.Default()
	ctx.Config.UMD = "Other"
	ctx.ConfigHash = ctx.Config.Fingerprint()

	_, err = Code(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestCode_HookFailure(t *testing.T) {
	boom := errors.New("hook exploded")
	p := &countingPlugin{err: boom}
	ctx := compiler.NewContext(config.Default(), compiler.WithPlugins(p))

	_, err := Code(ctx)
	require.Error(t, err)

	var hookErr *RuntimeHookError
	assert.ErrorAs(t, err, &hookErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, ctx.RuntimeCache.Len(), "failures are not cached")
}
