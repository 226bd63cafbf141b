package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapjs/internal/runtime"
	"github.com/spf13/cobra"
)

// NewRuntimeCommand creates the runtime command.
func NewRuntimeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runtime",
		Short: "Print the runtime bootstrap for the current configuration",
		Long: `Print the runtime that loads chunks, including the code contributed by
plugins and the UMD wrapper when umd is configured.`,
		Example: `  leapjs runtime
  leapjs runtime --umd MyLib`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			code, err := runtime.Code(cmdCtx.Session)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
			return err
		},
	}
}
