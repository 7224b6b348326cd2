package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schaermu/rulesguard/internal/check"
	"github.com/schaermu/rulesguard/internal/config"
	"github.com/schaermu/rulesguard/internal/git"
	"github.com/schaermu/rulesguard/internal/output"
	"github.com/schaermu/rulesguard/internal/repo"
	"github.com/schaermu/rulesguard/internal/rules"
	"github.com/schaermu/rulesguard/internal/watch"
	"github.com/spf13/cobra"
)

var (
	// Set by goreleaser
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string

	// Check and watch flags
	startDir   string
	jsonOutput bool
	noColor    bool
	showDiff   bool
	verbose    bool
)

// errDrift signals a completed check that found drift; the report has
// already been printed
var errDrift = errors.New("rules drift detected")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDrift) {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rulesguard",
	Short: "Detect drift between canonical rules and their generated copies",
	Long: `rulesguard enforces a single source of truth for rule documents.

Canonical rules live in rules-src/ at the repository root and are mirrored by
an external generator into several consumer-specific locations. rulesguard
compares every generated copy with its canonical source and reports missing,
stale, and corrupted files. It never modifies anything.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"check-rules", "rules-check"},
	Short:   "Check that generated rules match rules-src",
	Long: `Check resolves the repository root, compares every generated rule file with
its canonical source in rules-src/, and reports all problems at once.

Exit 0 when rules are up to date or the repository has no rules-src/ tree;
exit 1 on drift. Suitable for CI pipelines and pre-commit hooks.`,
	RunE: runCheck,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the check whenever canonical or generated rules change",
	Long: `Watch performs an initial check and then re-runs it each time a file under
rules-src/ or one of the generated rule directories changes, until
interrupted.`,
	RunE: runWatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rulesguard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/rulesguard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&startDir, "dir", "", "directory to start the repository root search from (default is the working directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Check command flags
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	checkCmd.Flags().BoolVar(&showDiff, "diff", false, "show a unified diff for each drifted file")
	checkCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every mapping entry grouped by consumer")

	// Add commands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	logger := setupLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig(logger)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir, err := resolveStartDir(cfg)
	if err != nil {
		return err
	}

	engine := newEngine(cfg, logger)
	report, err := engine.Run(ctx, dir)
	if err != nil {
		return err
	}

	if jsonOutput || cfg.Output.Format == config.FormatJSON {
		printer := output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), false)
		if err := printer.JSON(output.Summarize(report)); err != nil {
			return err
		}
	} else {
		printer := newTextPrinter(cmd, cfg)
		if err := printer.Text(report, output.Options{Verbose: verbose, Diff: showDiff}); err != nil {
			return err
		}
	}

	if !report.OK {
		return errDrift
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	logger := setupLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig(logger)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir, err := resolveStartDir(cfg)
	if err != nil {
		return err
	}

	engine := newEngine(cfg, logger)
	printer := newTextPrinter(cmd, cfg)

	runOnce := func(ctx context.Context) {
		report, err := engine.Run(ctx, dir)
		if err != nil {
			logger.Error("rules check failed", "error", err)
			return
		}
		if err := printer.Text(report, output.Options{}); err != nil {
			logger.Error("failed to print report", "error", err)
		}
	}

	report, err := engine.Run(ctx, dir)
	if err != nil {
		return err
	}
	if err := printer.Text(report, output.Options{}); err != nil {
		return err
	}

	w, err := watch.New(report.Root, rules.WatchPatterns(), cfg.DebounceDelay(), logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Close()
	}()

	return w.Run(ctx, runOnce)
}

func newEngine(cfg *config.Config, logger *slog.Logger) *check.Engine {
	var provider git.RootProvider
	if cfg.GitEnabled() {
		provider = git.NewShellClient()
	}
	return check.NewEngine(repo.NewResolver(provider, logger), logger)
}

func newTextPrinter(cmd *cobra.Command, cfg *config.Config) *output.Printer {
	mode := cfg.Output.Color
	if noColor {
		mode = config.ColorNever
	}

	// Failures go to stderr, so that is the stream whose terminal matters.
	var diag *os.File
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		diag = f
	}
	return output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.UseColor(mode, diag))
}

// resolveStartDir returns --dir, then root.dir from the config, then the
// working directory, as an absolute path
func resolveStartDir(cfg *config.Config) (string, error) {
	dir := startDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = cfg.StartDir(wd)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	return abs, nil
}

func setupLogger(w io.Writer) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// loadConfig reads --config when given (it must exist) or the default path
// (optional)
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	if cfgFile != "" {
		logger.Info("loading configuration", "path", cfgFile)
		return config.Load(cfgFile)
	}

	configPath, err := config.DefaultPath()
	if err != nil {
		logger.Debug("no default config path, using defaults", "error", err)
		return config.Default(), nil
	}

	logger.Debug("loading configuration", "path", configPath)
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		"use_git", cfg.GitEnabled(),
		"root_dir", cfg.Root.Dir,
		"format", cfg.Output.Format,
		"color", cfg.Output.Color)

	return cfg, nil
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}
