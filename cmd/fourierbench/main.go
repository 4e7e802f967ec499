// Command fourierbench times and cross-checks discrete Fourier transform
// implementations, from the command line or as an HTTP service.
package main

import (
	"context"
	"os"

	"github.com/agbru/fourierbench/internal/app"
	apperrors "github.com/agbru/fourierbench/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		// New already reported the error on stderr.
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
