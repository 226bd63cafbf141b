package commands

import (
	"log/slog"

	"github.com/leapstack-labs/leapjs/internal/cli/config"
	"github.com/leapstack-labs/leapjs/internal/compiler"
	intconfig "github.com/leapstack-labs/leapjs/internal/config"
	"github.com/leapstack-labs/leapjs/internal/plugins"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *intconfig.Config
	Logger   *slog.Logger
	Session  *compiler.Context
	Renderer *Renderer
}

// NewCommandContext creates a CommandContext with a fresh build session that
// has the built-in plugins registered.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	session := compiler.NewContext(cfg,
		compiler.WithLogger(logger),
		compiler.WithPlugins(plugins.Builtin()...))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Session:  session,
		Renderer: NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}
}

// getConfig returns the current configuration, falling back to the defaults
// when the root command did not load one.
func getConfig() *intconfig.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return intconfig.Default()
}
