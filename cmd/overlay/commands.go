package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"textoverlay/internal/adapters/browser"
	"textoverlay/internal/adapters/fixture"
	"textoverlay/internal/adapters/httpapi"
	"textoverlay/internal/config"
	"textoverlay/internal/domain"
	"textoverlay/internal/infrastructure/cachefile"
)

// ---------------------------------------------------------------------------
// run (browser host + control API + auto loop)
// ---------------------------------------------------------------------------

func newRunCmd() *cobra.Command {
	var bcfg browser.Config
	var addr string

	cmd := &cobra.Command{
		Use:   "run --url URL",
		Short: "Translate a web page in a browser",
		Long: `Open URL in Chrome and keep its text translated.

Automatic cycles run every AUTO_INTERVAL while auto translation is on.
The control API (CONTROL_ADDR) triggers cycles and toggles auto mode:

  GET  /status           session state and last cycle
  POST /cycle            run one cycle now
  POST /auto             toggle auto translation (?enabled=true|false)
  POST /cache/reload     reload the cache from storage
  POST /cache/flush      persist the cache
  GET  /cache/lookup?q=  cached translation of q
  GET  /texts            dump the live texts
  POST /translate        {"text": "..."}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bcfg.URL == "" {
				return errors.New("--url is required")
			}
			return runBrowser(cmd.Context(), bcfg, addr)
		},
	}

	cmd.Flags().StringVar(&bcfg.URL, "url", "", "Page to translate")
	cmd.Flags().StringVar(&bcfg.RemoteURL, "remote", "", "WebSocket URL of a running Chrome")
	cmd.Flags().BoolVar(&bcfg.Stealth, "stealth", false, "Open the page in stealth mode")
	cmd.Flags().BoolVar(&bcfg.Headful, "headful", false, "Show the browser window")
	cmd.Flags().StringVar(&bcfg.SimpleSelector, "simple", "", "CSS selector of simple text nodes")
	cmd.Flags().StringVar(&bcfg.RichSelector, "rich", "", "CSS selector of rich text nodes")
	cmd.Flags().StringVar(&addr, "addr", "", "Control API address (default CONTROL_ADDR)")
	return cmd
}

func runBrowser(parent context.Context, bcfg browser.Config, addr string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.ControlAddr
	}

	bcfg.Logger = logger
	host, err := browser.Open(ctx, bcfg)
	if err != nil {
		return err
	}
	defer host.Close()

	session, release, err := openSession(ctx, cfg, host, host, logger)
	if err != nil {
		return err
	}
	defer release()
	defer func() {
		if err := session.Close(context.Background()); err != nil {
			logger.Error("final cache flush failed", "error", err)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		session.RunAuto(ctx, cfg.AutoInterval)
	}()

	router := httpapi.NewRouter(httpapi.NewHandler(session, logger))
	err = httpapi.Serve(ctx, addr, router, logger)
	stop()
	wg.Wait()
	return err
}

// ---------------------------------------------------------------------------
// simulate (fixture host)
// ---------------------------------------------------------------------------

func newSimulateCmd() *cobra.Command {
	var cycles int

	cmd := &cobra.Command{
		Use:   "simulate FIXTURE.yaml",
		Short: "Run translation cycles against a fixture host",
		Long: `Load a YAML fixture host and run a number of cycles against it.

Each cycle summary is printed as JSON on stdout, followed by the final text
of every node. The cache is flushed at the end.

Fixture format:
  simple:
    - id: title
      text: こんにちは
  rich:
    - id: dialog
      text: 攻撃する
      live: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), args[0], cycles)
		},
	}

	cmd.Flags().IntVarP(&cycles, "cycles", "n", 1, "Number of cycles to run")
	return cmd
}

func runSimulate(ctx context.Context, path string, cycles int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	host, err := fixture.Load(path)
	if err != nil {
		return err
	}
	session, release, err := openSession(ctx, cfg, host, host, logger)
	if err != nil {
		return err
	}
	defer release()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for i := 0; i < cycles; i++ {
		summary, err := session.RunCycle(ctx)
		if err != nil {
			logger.Error("cycle failed", "cycle", i+1, "error", err)
		}
		if err := enc.Encode(summary); err != nil {
			return err
		}
	}
	if err := enc.Encode(host.Snapshot()); err != nil {
		return err
	}
	return session.Close(ctx)
}

// ---------------------------------------------------------------------------
// translate (one string)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate TEXT...",
		Short: "Translate a single string through cache and provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger := slog.Default()
			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			session, release, err := openSession(ctx, cfg, fixture.New(), nil, logger)
			if err != nil {
				return err
			}
			defer release()

			text := strings.Join(args, " ")
			if !domain.NeedsTranslation(text) {
				logger.Warn("text has no Japanese or Chinese characters", "text", text)
			}
			out, err := session.TranslateText(ctx, text)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return session.Close(ctx)
		},
	}
}

// ---------------------------------------------------------------------------
// convert (legacy cache file)
// ---------------------------------------------------------------------------

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert CACHE_FILE",
		Short: "Rewrite a cache file using the canonical separator",
		Long: `Rewrite a translation cache file in canonical "original==>translated"
form. Lines using a tab or a bare "=" as separator are recovered, duplicate
originals keep their last translation and malformed lines are dropped.
The original file is kept as CACHE_FILE.backup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := cachefile.Convert(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "  Entries:    %d\n", report.Entries)
			fmt.Fprintf(os.Stderr, "  Legacy:     %d\n", report.Legacy)
			fmt.Fprintf(os.Stderr, "  Malformed:  %d\n", report.Malformed)
			fmt.Fprintf(os.Stderr, "  Backup:     %s\n", report.Backup)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// init (default configuration)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return err
			}
			path := config.Path(dataDir)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			slog.Info("configuration written", "path", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
