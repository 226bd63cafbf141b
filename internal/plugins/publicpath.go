package plugins

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/leapjs/internal/compiler"
)

// PublicPath tells the runtime where chunks and emitted assets are served
// from.
type PublicPath struct {
	compiler.Base
}

// Name implements compiler.Plugin.
func (*PublicPath) Name() string { return "public_path" }

// RuntimePlugins implements compiler.Plugin.
func (*PublicPath) RuntimePlugins(ctx *compiler.Context) (string, error) {
	quoted, err := json.Marshal(ctx.Config.PublicPath)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("requireModule.publicPath = %s;", quoted), nil
}
