package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command. buildDate and gitCommit
// are stamped by the release build and read "unknown" otherwise.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leapjs version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapjs v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "JavaScript chunk generator built with Go and esbuild")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\nbuilt:  %s\n", gitCommit, buildDate)
		},
	}
}
