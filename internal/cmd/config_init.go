package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opmodel/abinspect/internal/config"
	oerrors "github.com/opmodel/abinspect/internal/errors"
	"github.com/opmodel/abinspect/internal/output"
)

var configInitForce bool

const configHeader = `# abinspect configuration.
# Environment variables (ABINSPECT_*) override these values; command-line
# arguments override both.
`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the abinspect configuration.

Creates ~/.abinspect/config.yaml populated with default values for the
watched directory, manifest extension, poll and tick intervals, loader
concurrency and the initial pane split.

Examples:
  # Initialize configuration
  abinspect config init

  # Overwrite existing configuration
  abinspect config init --force`,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}

	exists, err := config.ConfigFileExists(paths.ConfigFile)
	if err != nil {
		return oerrors.NewPermissionError("cannot check existing configuration", paths.ConfigFile, "")
	}
	if exists && !configInitForce {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: paths.ConfigFile,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	if err := os.MkdirAll(paths.HomeDir, 0o700); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not create ~/.abinspect directory")
	}

	body, err := config.DefaultConfig().ToYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(paths.ConfigFile, append([]byte(configHeader), body...), 0o600); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not write config.yaml")
	}

	output.Println(output.FormatCheckmark("Configuration initialized at " + paths.ConfigFile))
	output.Println("Validate with: abinspect config vet")

	return nil
}
