// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/abinspect/internal/config"
	"github.com/opmodel/abinspect/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool
	logFileFlag    string

	// Loaded configuration (set during PersistentPreRunE)
	loadedConfig   *config.Config
	resolvedValues []config.ResolvedValue
)

// NewRootCmd creates the root command for abinspect.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "abinspect [DIR]",
		Short: "Asset bundle inspector",
		Long: `abinspect watches a build output directory for asset bundle manifests,
loads every bundle it finds in the background and shows load progress and
bundle contents side by side.

Run without a subcommand on a terminal to open the interactive inspector.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !output.IsInteractive() {
				return cmd.Help()
			}
			return runInspect(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: ABINSPECT_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Log file used while the inspector owns the terminal (env: ABINSPECT_LOG_FILE)")

	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command) error {
	// Load configuration first so we can use config values for logging setup
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		output.Debug("config path resolution error", "error", err)
	}

	loader := config.NewLoader()
	cfg, err := loader.LoadWithDefaults(pathResult.ConfigPath)
	if err != nil {
		// Don't fail here - `config vet` reports the problem, everything else
		// runs on defaults.
		output.Debug("config load error", "error", err)
		cfg = config.DefaultConfig()
	} else {
		resolvedValues = loader.Resolved()
	}
	loadedConfig = cfg

	// Resolve timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}

	output.SetupLogging(logCfg)

	if verboseFlag {
		output.Debug("initializing CLI",
			"config", pathResult.ConfigPath,
			"config_source", pathResult.Source,
			"config_found", loader.Path() != "",
		)
		config.LogResolvedValues(resolvedValues)
	}

	return nil
}

// GetConfig returns the loaded configuration, or defaults when the root
// command has not run.
func GetConfig() *config.Config {
	if loadedConfig == nil {
		return config.DefaultConfig()
	}
	return loadedConfig
}

// GetConfigPath returns the raw --config flag value.
func GetConfigPath() string {
	return configFlag
}

// resolveWatchDir picks the watched directory: positional argument >
// ABINSPECT_WATCH_DIR > config watchDir. The result is ~-expanded.
func resolveWatchDir(args []string) (string, error) {
	rv, ok := config.Lookup(resolvedValues, "watchDir")
	if !ok {
		rv = config.ResolvedValue{Key: "watchDir", Value: GetConfig().WatchDir, Source: config.SourceConfig}
	}
	if len(args) > 0 {
		rv = rv.WithFlag(args[0], true)
	}
	output.Debug("watch directory resolved", "value", rv.Value, "source", rv.Source)

	dir, _ := rv.Value.(string)
	return config.ExpandPath(dir)
}

// resolveLogFile picks the inspector log file: --log-file > config log.file >
// ~/.abinspect/abinspect.log.
func resolveLogFile() (string, error) {
	if logFileFlag != "" {
		return config.ExpandPath(logFileFlag)
	}
	if f := GetConfig().Log.File; f != "" {
		return config.ExpandPath(f)
	}
	return config.GetLogFile()
}
