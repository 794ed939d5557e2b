// Package main is the entry point for the abinspect CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/opmodel/abinspect/internal/cmd"
	oerrors "github.com/opmodel/abinspect/internal/errors"
	"github.com/opmodel/abinspect/internal/output"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		code := oerrors.ExitCodeFromError(err)

		// Only print if the command layer hasn't already printed it
		var exitErr *oerrors.ExitError
		if !errors.As(err, &exitErr) || !exitErr.Printed {
			fmt.Fprintln(os.Stderr, err)
		}
		output.Debug("exiting", "code", code, "reason", oerrors.ExitCodeName(code))
		os.Exit(code)
	}
}
