package compiler

import (
	"fmt"
	"strings"
)

// LoadParam describes a file the loader could not handle natively.
type LoadParam struct {
	Path    string
	ExtName string // extension without the leading dot
}

// ContentKind is the language of loaded content.
type ContentKind uint8

const (
	ContentJS ContentKind = iota
	ContentCSS
)

// Content is source text produced by a plugin's Load hook.
type Content struct {
	Kind ContentKind
	Code string
}

// Plugin customizes a build. Plugins embed Base and override the hooks they
// need.
type Plugin interface {
	Name() string
	// Load returns generated content for a file, nil when the plugin does not
	// handle it, or an error such as *UnsupportedExtensionError.
	Load(param *LoadParam, ctx *Context) (*Content, error)
	// BuildSuccess runs once after every chunk has been written.
	BuildSuccess(stats *StatsJSON, ctx *Context) error
	// RuntimePlugins returns code injected into the runtime bootstrap.
	RuntimePlugins(ctx *Context) (string, error)
}

// Base implements every hook as a no-op.
type Base struct{}

// Load implements Plugin.
func (Base) Load(*LoadParam, *Context) (*Content, error) { return nil, nil }

// BuildSuccess implements Plugin.
func (Base) BuildSuccess(*StatsJSON, *Context) error { return nil }

// RuntimePlugins implements Plugin.
func (Base) RuntimePlugins(*Context) (string, error) { return "", nil }

// UnsupportedExtensionError is returned by a Load hook for a file type the
// build refuses to handle.
type UnsupportedExtensionError struct {
	ExtName string
	Path    string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported ext name %s in %s", e.ExtName, e.Path)
}

// PluginError identifies the plugin and hook an error came from.
type PluginError struct {
	Plugin string
	Hook   string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s: %s: %v", e.Plugin, e.Hook, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// PluginDriver calls the hooks of registered plugins in registration order.
type PluginDriver struct {
	plugins []Plugin
}

// NewPluginDriver creates a driver over plugins.
func NewPluginDriver(plugins ...Plugin) *PluginDriver {
	return &PluginDriver{plugins: plugins}
}

// Plugins returns the registered plugins.
func (d *PluginDriver) Plugins() []Plugin {
	return d.plugins
}

// Load returns the content of the first plugin that handles param. It
// returns nil content when no plugin does.
func (d *PluginDriver) Load(param *LoadParam, ctx *Context) (*Content, error) {
	for _, p := range d.plugins {
		content, err := p.Load(param, ctx)
		if err != nil {
			return nil, &PluginError{Plugin: p.Name(), Hook: "load", Err: err}
		}
		if content != nil {
			return content, nil
		}
	}
	return nil, nil
}

// RuntimePluginsCode concatenates the runtime code of every plugin.
func (d *PluginDriver) RuntimePluginsCode(ctx *Context) (string, error) {
	var parts []string
	for _, p := range d.plugins {
		code, err := p.RuntimePlugins(ctx)
		if err != nil {
			return "", &PluginError{Plugin: p.Name(), Hook: "runtime_plugins", Err: err}
		}
		if code != "" {
			parts = append(parts, code)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// BuildSuccess runs every plugin's BuildSuccess hook, stopping at the first
// failure.
func (d *PluginDriver) BuildSuccess(stats *StatsJSON, ctx *Context) error {
	for _, p := range d.plugins {
		if err := p.BuildSuccess(stats, ctx); err != nil {
			return &PluginError{Plugin: p.Name(), Hook: "build_success", Err: err}
		}
	}
	return nil
}
