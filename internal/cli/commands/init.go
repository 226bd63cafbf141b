package commands

import (
	"fmt"
	"os"
	"path/filepath"

	intconfig "github.com/leapstack-labs/leapjs/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new leapjs project",
		Long: `Initialize a new leapjs project with a configuration file, a chunk
graph and a small example application.

This creates:
  - leapjs.yaml build configuration
  - leapjs.graph.yaml describing the chunks to generate
  - src/ with example modules`,
		Example: `  # Initialize in current directory
  leapjs init

  # Initialize in a new directory
  leapjs init my-app

  # Force overwrite existing files
  leapjs init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(r *Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	if err := copyTemplate("minimal", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("minimal")
	for _, f := range files {
		r.StatusLine(f, "")
	}

	r.Println("")
	r.Success("leapjs project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  leapjs build      Generate chunks into dist/")
	r.Println("  leapjs runtime    Print the runtime bootstrap")

	return nil
}
