package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/abinspect/internal/output"
	"github.com/opmodel/abinspect/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show abinspect version information.

Displays:
  - abinspect version, commit, and build date
  - Go toolchain and platform
  - bubbletea version linked into the binary`,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	output.Println(version.Get().String())
	return nil
}
