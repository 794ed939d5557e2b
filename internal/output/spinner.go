package output

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title   string
	timeout time.Duration
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// WithTimeout sets the spinner timeout.
func WithTimeout(timeout time.Duration) SpinnerOption {
	return func(c *spinnerConfig) {
		c.timeout = timeout
	}
}

// Spinner hooks, replaced in tests to exercise the terminal path.
var (
	spinnerEnabled = IsTTY
	runSpinner     = func(title string, wait func()) error {
		return spinner.New().Title(title).Action(wait).Run()
	}
)

// RunWithSpinner executes an action with a spinner.
// Without a TTY the action runs directly. Returns the action's error if any.
// It never returns while the action is still running: if the spinner stops
// early (for example on Ctrl+C), the action's context is cancelled and the
// action is waited for.
func RunWithSpinner(ctx context.Context, action func(context.Context) error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{
		title: "Working...",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	actionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.timeout > 0 {
		var cancelTimeout context.CancelFunc
		actionCtx, cancelTimeout = context.WithTimeout(actionCtx, cfg.timeout)
		defer cancelTimeout()
	}

	if !spinnerEnabled() {
		return action(actionCtx)
	}

	var actionErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		actionErr = action(actionCtx)
	}()

	spinnerErr := runSpinner(cfg.title, func() {
		<-done
	})
	if spinnerErr != nil {
		cancel()
		<-done
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}

	<-done
	return actionErr
}

// WaitWithSpinner polls condition every interval until it reports done,
// returns an error, or ctx expires.
func WaitWithSpinner(ctx context.Context, title string, condition func() (bool, error), interval time.Duration, opts ...SpinnerOption) error {
	opts = append([]SpinnerOption{WithTitle(title)}, opts...)
	return RunWithSpinner(ctx, func(ctx context.Context) error {
		return pollUntil(ctx, condition, interval)
	}, opts...)
}

func pollUntil(ctx context.Context, condition func() (bool, error), interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := condition()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
