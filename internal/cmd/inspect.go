package cmd

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/config"
	oerrors "github.com/opmodel/abinspect/internal/errors"
	"github.com/opmodel/abinspect/internal/inspector"
	"github.com/opmodel/abinspect/internal/output"
	"github.com/opmodel/abinspect/internal/scanner"
	"github.com/opmodel/abinspect/internal/tui"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [DIR]",
		Short: "Open the interactive bundle inspector",
		Long: `Open the interactive bundle inspector on DIR.

The left pane lists every bundle whose manifest is present in DIR, with its
load progress. The right pane shows the selected bundle's manifest, size,
digest and header once it has loaded. The directory is rescanned
continuously; bundles appear and disappear as their manifests do.

DIR defaults to ABINSPECT_WATCH_DIR, then watchDir from the config file. It
may be changed from inside the inspector with 'd'.

Logs are written to --log-file while the inspector is open.

Examples:
  # Inspect a build output directory
  abinspect inspect ./Build/AssetBundles

  # Inspect the configured directory
  abinspect inspect`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if err := config.Validate(cfg); err != nil {
		return oerrors.NewExitError(err, oerrors.ExitValidationError)
	}
	if !output.IsInteractive() {
		return oerrors.NewValidationError(
			"the inspector needs an interactive terminal",
			"", "",
			"Use 'abinspect scan DIR' for non-interactive output.",
		)
	}

	dir, err := resolveWatchDir(args)
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not expand watch directory")
	}

	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	loader := bundle.NewFileLoader(cfg.LoaderOptions())
	session := inspector.New(loader, inspector.Options{
		ManifestExt:  cfg.ManifestExt,
		PollInterval: cfg.PollInterval,
	})
	session.SetDir(dir)
	defer func() {
		loader.Close()
		session.Close()
		output.Debug("inspector closed", "loads", loader.Loads(), "releases", loader.Releases())
	}()

	watcher, err := scanner.NewWatcher(cfg.ManifestExt)
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(dir); err != nil {
		output.Warn("cannot watch directory, relying on periodic scans", "dir", dir, "error", err)
	}

	model := tui.New(session, tui.Options{
		TickInterval: cfg.TickInterval,
		SplitRatio:   cfg.SplitRatio,
		Changes:      watcher.Changes(),
		OnDirChange: func(dir string) {
			if err := watcher.Watch(dir); err != nil {
				output.Warn("cannot watch directory", "dir", dir, "error", err)
			}
		},
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

// redirectLogs sends log output to the inspector log file until the
// returned function is called.
func redirectLogs() (func(), error) {
	path, err := resolveLogFile()
	if err != nil {
		return nil, oerrors.Wrap(oerrors.ErrNotFound, "could not determine log file path")
	}
	if err := config.EnsureDir(path); err != nil {
		return nil, oerrors.NewPermissionError("could not create log directory", path, "Set --log-file to a writable location.")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, oerrors.NewPermissionError("could not open log file", path, "Set --log-file to a writable location.")
	}

	output.SetOutput(f)
	output.Debug("inspector started", "log_file", path)
	return func() {
		output.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
