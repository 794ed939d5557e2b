package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/opmodel/abinspect/internal/config"
	oerrors "github.com/opmodel/abinspect/internal/errors"
	"github.com/opmodel/abinspect/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the abinspect configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML
  3. Values are within range after defaults and environment overrides

The config path is resolved using precedence:
  --config flag > ABINSPECT_CONFIG env > ~/.abinspect/config.yaml

Examples:
  # Validate default configuration
  abinspect config vet

  # Validate custom config path
  abinspect config vet --config /path/to/config.yaml`,
		RunE: runConfigVet,
	}

	return cmd
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: GetConfigPath(),
	})
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not resolve config path")
	}

	configPath, err := config.ExpandPath(pathResult.ConfigPath)
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not expand config path")
	}

	output.Debug("validating config",
		"path", configPath,
		"source", pathResult.Source,
	)

	exists, err := config.ConfigFileExists(configPath)
	if err != nil {
		return oerrors.NewPermissionError("cannot read configuration file", configPath, "")
	}
	if !exists {
		return oerrors.NewNotFoundError(
			"configuration file not found",
			configPath,
			"Run 'abinspect config init' to create default configuration",
		)
	}

	if _, err := config.ValidateFile(configPath); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			return &oerrors.DetailError{
				Type:     "validation failed",
				Message:  verrs.Error(),
				Location: configPath,
				Cause:    oerrors.ErrValidation,
			}
		}
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration file could not be parsed",
			Location: configPath,
			Hint:     "Check the file is valid YAML.",
			Cause:    errors.Join(oerrors.ErrValidation, err),
		}
	}

	output.Println(output.FormatCheckmark("Configuration is valid: " + configPath))
	return nil
}
