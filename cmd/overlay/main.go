package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	dataDir string
	verbose bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "overlay",
		Short: "Incremental machine translation overlay for live text",
		Long: `overlay translates the text of a live host in place.

Each cycle discovers the host's text nodes, keeps those written in
Japanese or Chinese script, resolves them through the translation cache
or the configured provider (google, papago, deepl) and writes the result
back, restyling rich nodes. Rich nodes are processed one window per cycle.

Commands:
  run        Translate a web page in a browser, with a control API
  simulate   Run cycles against a YAML fixture host
  translate  Translate a single string through cache and provider
  convert    Rewrite a legacy cache file in canonical form
  init       Write the default configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().StringVar(&dataDir, "data-dir", "translator", "Directory holding config, cache and font")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(
		newRunCmd(),
		newSimulateCmd(),
		newTranslateCmd(),
		newConvertCmd(),
		newInitCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("overlay failed", "error", err)
		os.Exit(1)
	}
}
