package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/toast/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "toastd",
		Short: "Toast notification queue server",
		Long: `toastd serves a toast notification queue over HTTP.

Toasts are enqueued with POST /toasts, expire on their own after their
duration, and are streamed to browsers over a WebSocket at
/toasts/stream. Hovering a toast pauses its countdown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printError prints err, using the long form for coded errors.
func printError(err error) {
	var te *errors.Error
	if stderrors.As(err, &te) {
		fmt.Fprint(os.Stderr, te.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
