package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	c := Default()

	assert.Equal(t, ModeDevelopment, c.Mode)
	assert.Equal(t, DevtoolSourceMap, c.Devtool)
	assert.Equal(t, UMDNone, c.UMD)
	assert.Equal(t, DefaultESVersion, c.Output.ESVersion)
	assert.Equal(t, DefaultInlineLimit, c.InlineLimit)
	assert.Nil(t, c.Manifest)
	assert.NoError(t, c.Validate())
}

func TestShouldMinify(t *testing.T) {
	tests := []struct {
		name   string
		minify bool
		mode   Mode
		want   bool
	}{
		{name: "production with minify", minify: true, mode: ModeProduction, want: true},
		{name: "development with minify", minify: true, mode: ModeDevelopment, want: false},
		{name: "production without minify", minify: false, mode: ModeProduction, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Minify: tt.minify, Mode: tt.mode}
			assert.Equal(t, tt.want, c.ShouldMinify())
		})
	}
}

func TestUMDEnabled(t *testing.T) {
	assert.False(t, (&Config{UMD: "none"}).UMDEnabled())
	assert.False(t, (&Config{}).UMDEnabled())
	assert.True(t, (&Config{UMD: "MyLib"}).UMDEnabled())
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	// Concurrency does not change output
	b.Concurrency = 64
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.UMD = "MyLib"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := Default()
	c.Manifest = &ManifestConfig{FileName: DefaultManifestFileName}
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "staging" }, wantKey: "mode"},
		{name: "bad devtool", mutate: func(c *Config) { c.Devtool = "eval" }, wantKey: "devtool"},
		{name: "bad es version", mutate: func(c *Config) { c.Output.ESVersion = "es3" }, wantKey: "output.es_version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)
			var optErr *InvalidOptionError
			require.ErrorAs(t, err, &optErr)
			assert.Equal(t, tt.wantKey, optErr.Key)
		})
	}

	c := Default()
	c.InlineLimit = -1
	assert.Error(t, c.Validate())
}

func TestValidate_ES5Rejected(t *testing.T) {
	for _, v := range []string{"es5", "ES5"} {
		t.Run(v, func(t *testing.T) {
			c := Default()
			c.Output.ESVersion = v

			err := c.Validate()
			var optErr *InvalidOptionError
			require.ErrorAs(t, err, &optErr)
			assert.Equal(t, "output.es_version", optErr.Key)
			assert.Contains(t, err.Error(), "es5 output is not supported, the oldest target is es2015")
			assert.NotContains(t, optErr.Allowed, "es5")
		})
	}

	c := Default()
	c.Output.ESVersion = "es2015"
	assert.NoError(t, c.Validate())
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()

	content := `mode: production
minify: true
devtool: none
umd: MyLib
output:
  path: build
  es_version: es2018
manifest:
  base_path: /static
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))

	c, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, ModeProduction, c.Mode)
	assert.True(t, c.ShouldMinify())
	assert.Equal(t, DevtoolNone, c.Devtool)
	assert.Equal(t, "MyLib", c.UMD)
	assert.Equal(t, filepath.Join(dir, "build"), c.Output.Path)
	assert.Equal(t, "es2018", c.Output.ESVersion)
	require.NotNil(t, c.Manifest)
	assert.Equal(t, "/static", c.Manifest.BasePath)
	assert.Equal(t, DefaultManifestFileName, c.Manifest.FileName)
}

func TestLoadFromDir_NoFile(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, ModeDevelopment, c.Mode)
	assert.Equal(t, filepath.Join(dir, DefaultOutputPath), c.Output.Path)
}

func TestLoadFromDir_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("mode: fast\n"), 0o600))

	_, err := LoadFromDir(dir)
	assert.Error(t, err)
}
