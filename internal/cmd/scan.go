package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/config"
	oerrors "github.com/opmodel/abinspect/internal/errors"
	"github.com/opmodel/abinspect/internal/inspector"
	"github.com/opmodel/abinspect/internal/output"
)

var (
	scanOutputFlag      string
	scanTimeoutFlag     time.Duration
	scanFailOnErrorFlag bool
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [DIR]",
		Short: "Load every bundle in a directory and print a report",
		Long: `Load every bundle whose manifest is present in DIR and print a report.

scan runs the same scan, load and poll cycle as the interactive inspector
until every load has finished, then prints one entry per bundle with its
state, size, digest, header and manifest summary.

Examples:
  # Table report
  abinspect scan ./Build/AssetBundles

  # JSON report, failing if any bundle could not be loaded
  abinspect scan ./Build/AssetBundles -o json --fail-on-error

  # Give up after 30 seconds
  abinspect scan ./Build/AssetBundles --timeout 30s`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}

	cmd.Flags().StringVarP(&scanOutputFlag, "output", "o", "table", "Output format: table, json, yaml")
	cmd.Flags().DurationVar(&scanTimeoutFlag, "timeout", 5*time.Minute, "Maximum time to wait for loads (0 waits forever)")
	cmd.Flags().BoolVar(&scanFailOnErrorFlag, "fail-on-error", false, "Exit non-zero if any bundle failed to load")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	format := output.ParseFormat(scanOutputFlag)
	if !format.IsValid() {
		return oerrors.NewValidationError(
			fmt.Sprintf("unsupported output format %q", scanOutputFlag),
			"", "output",
			fmt.Sprintf("Use one of: %v", output.ValidFormats()),
		)
	}

	cfg := GetConfig()
	if err := config.Validate(cfg); err != nil {
		return oerrors.NewExitError(err, oerrors.ExitValidationError)
	}

	dir, err := resolveWatchDir(args)
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not expand watch directory")
	}
	if dir == "" {
		return oerrors.NewValidationError(
			"no directory to scan",
			"", "watchDir",
			"Pass DIR, set ABINSPECT_WATCH_DIR or set watchDir in the config file.",
		)
	}
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return oerrors.NewNotFoundError("directory does not exist", dir, "")
	case err != nil:
		return oerrors.NewPermissionError("cannot read directory", dir, "")
	case !info.IsDir():
		return oerrors.NewValidationError("not a directory", dir, "", "")
	}

	report, err := scanDir(cmd.Context(), cfg, dir, scanTimeoutFlag)
	if err != nil && !errors.Is(err, oerrors.ErrTimeout) {
		return err
	}
	if werr := writeReport(cmd.OutOrStdout(), format, report); werr != nil {
		return werr
	}
	if err != nil {
		return oerrors.NewExitError(err, oerrors.ExitTimeout)
	}

	if report.Failed > 0 {
		output.Warn("some bundles failed to load", "failed", report.Failed)
		if scanFailOnErrorFlag {
			return oerrors.NewExitError(
				oerrors.Wrap(oerrors.ErrLoadFailed, fmt.Sprintf("%d of %d bundles failed", report.Failed, len(report.Bundles))),
				oerrors.ExitLoadError,
			)
		}
	}
	return nil
}

// scanDir ticks a fresh session over dir until every load has finished or
// timeout elapses, and returns the resulting report.
func scanDir(ctx context.Context, cfg *config.Config, dir string, timeout time.Duration) (inspector.Report, error) {
	loader := bundle.NewFileLoader(cfg.LoaderOptions())
	session := inspector.New(loader, inspector.Options{
		ManifestExt:  cfg.ManifestExt,
		PollInterval: cfg.PollInterval,
	})
	session.SetDir(dir)

	start := time.Now()
	var opts []output.SpinnerOption
	if timeout > 0 {
		opts = append(opts, output.WithTimeout(timeout))
	}
	waitErr := output.WaitWithSpinner(ctx, "Loading bundles in "+dir, func() (bool, error) {
		session.Tick()
		return session.Settled(), nil
	}, cfg.TickInterval, opts...)

	report := session.Report()
	loader.Close()
	session.Close()

	output.Debug("scan finished",
		"dir", dir,
		"bundles", len(report.Bundles),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if errors.Is(waitErr, context.DeadlineExceeded) {
		return report, oerrors.Wrap(oerrors.ErrTimeout, fmt.Sprintf("%d bundles still loading after %s", report.Loading, timeout))
	}
	return report, waitErr
}

func writeReport(w io.Writer, format output.Format, report inspector.Report) error {
	if format != output.FormatTable {
		return output.WriteStructured(w, format, report)
	}

	if len(report.Bundles) == 0 {
		_, err := fmt.Fprintln(w, output.StyleDim.Render("No bundles found in "+report.Dir))
		return err
	}

	tbl := output.NewTable("BUNDLE", "STATE", "SIZE", "ASSETS", "CRC", "ENGINE")
	for _, b := range report.Bundles {
		state := b.State
		if b.State == output.StateLoading {
			state = fmt.Sprintf("%s %d%%", b.State, b.Progress)
		}
		size, assets, crc := "-", "-", "-"
		if b.State == output.StateLoaded {
			size = output.FormatBytes(b.Size)
			assets = strconv.Itoa(b.Assets)
			crc = strconv.FormatUint(uint64(b.CRC), 10)
		}
		tbl.Row(
			output.StyleNoun.Render(b.Name),
			output.StateStyle(b.State).Render(state),
			size,
			assets,
			crc,
			b.EngineVersion,
		)
	}

	summary := fmt.Sprintf("%d loaded, %d failed, %d loading", report.Loaded, report.Failed, report.Loading)
	_, err := fmt.Fprintf(w, "%s\n%s\n", tbl.String(), output.StyleSummary.Render(summary))
	return err
}
