// Package config provides the build configuration shared by code
// generation, the runtime assembler and the plugins.
// This package is decoupled from CLI concerns; flag and environment layering
// lives in internal/cli/config.
package config

import (
	"strconv"

	"github.com/leapstack-labs/leapjs/pkg/hashutil"
)

// Mode is the build mode.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Devtool selects how source maps are produced.
type Devtool string

const (
	DevtoolNone            Devtool = "none"
	DevtoolSourceMap       Devtool = "source-map"
	DevtoolInlineSourceMap Devtool = "inline-source-map"
)

// UMDNone disables the UMD wrapper.
const UMDNone = "none"

// OutputConfig holds output location and language level.
type OutputConfig struct {
	Path string `koanf:"path"`
	// ESVersion is the language level of emitted code (es2015 ... esnext).
	ESVersion string `koanf:"es_version"`
}

// ManifestConfig enables the asset manifest side artifact.
type ManifestConfig struct {
	FileName string `koanf:"file_name"`
	BasePath string `koanf:"base_path"`
}

// Config holds all build configuration options.
type Config struct {
	Root        string          `koanf:"root"`
	Mode        Mode            `koanf:"mode"`
	Minify      bool            `koanf:"minify"`
	Devtool     Devtool         `koanf:"devtool"`
	UMD         string          `koanf:"umd"`
	PublicPath  string          `koanf:"public_path"`
	InlineLimit int             `koanf:"inline_limit"` // bytes; larger assets are emitted as files
	Concurrency int             `koanf:"concurrency"`
	Verbose     bool            `koanf:"verbose"`
	Output      OutputConfig    `koanf:"output"`
	Manifest    *ManifestConfig `koanf:"manifest"`
}

// ShouldMinify reports whether emitted code is minified. Minification only
// applies to production builds.
func (c *Config) ShouldMinify() bool {
	return c.Minify && c.Mode == ModeProduction
}

// UMDEnabled reports whether the UMD wrapper is appended to the runtime.
func (c *Config) UMDEnabled() bool {
	return c.UMD != "" && c.UMD != UMDNone
}

// Flatten returns every option as a flat key/value map using the same keys
// as the config file.
func (c *Config) Flatten() map[string]string {
	m := map[string]string{
		"root":              c.Root,
		"mode":              string(c.Mode),
		"minify":            strconv.FormatBool(c.Minify),
		"devtool":           string(c.Devtool),
		"umd":               c.UMD,
		"public_path":       c.PublicPath,
		"inline_limit":      strconv.Itoa(c.InlineLimit),
		"output.path":       c.Output.Path,
		"output.es_version": c.Output.ESVersion,
	}
	if c.Manifest != nil {
		m["manifest.file_name"] = c.Manifest.FileName
		m["manifest.base_path"] = c.Manifest.BasePath
	}
	return m
}

// Fingerprint returns a hash of the configuration that is stable across runs.
// Equal fingerprints imply identical runtime output. Concurrency and
// verbosity do not affect output and are left out.
func (c *Config) Fingerprint() uint64 {
	return hashutil.Map(c.Flatten())
}
