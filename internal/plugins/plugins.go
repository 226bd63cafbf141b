// Package plugins contains the plugins every build registers by default.
package plugins

import "github.com/leapstack-labs/leapjs/internal/compiler"

// Builtin returns the default plugins in registration order.
func Builtin() []compiler.Plugin {
	return []compiler.Plugin{
		&PublicPath{},
		&Assets{},
		&Manifest{},
	}
}
