package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/logger"
	"github.com/abhisek/mathdrill/internal/store"
)

// tuiAnnotation marks commands that hand the terminal to Bubble Tea. Their
// logs go to a file instead of stderr.
const tuiAnnotation = "tui"

var (
	settings = config.DefaultSettings()
	cliLog   = zerolog.Nop()
	logFile  io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "mathdrill",
	Short: "Timed arithmetic drills in the terminal",
	Long: "Mathdrill runs timed arithmetic drills (borrow subtraction, carry addition, " +
		"times tables, chains and fill-in-the-blank), diagnoses wrong answers and " +
		"tracks personal bests.",
	Annotations:       map[string]string{tuiAnnotation: "true"},
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, settings, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides MATHDRILL_DB env var)")
	pf.String("config", "", "Path to TOML config file (default $XDG_CONFIG_HOME/mathdrill/config.toml)")
	pf.String("store", "", "Storage backend: sqlite, redis or memory")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(wrongCmd)
	rootCmd.AddCommand(customCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings merges defaults, the config file, .env and the environment,
// then the global flags, and sets up logging.
func loadSettings(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	file, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	s := config.Resolve(file, config.LoadEnv())
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		s.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		s.Store = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		s.LogLevel = v
	}
	if err := s.Validate(); err != nil {
		return err
	}
	settings = s

	return setupLogging(cmd)
}

func setupLogging(cmd *cobra.Command) error {
	if cmd.Annotations[tuiAnnotation] != "true" {
		cliLog = logger.Setup(settings.LogLevel, settings.LogFormat, os.Stderr)
		return nil
	}
	f, err := logger.OpenFile(config.DefaultLogPath())
	if err != nil {
		return err
	}
	logFile = f
	cliLog = logger.Setup(settings.LogLevel, settings.LogFormat, f)
	return nil
}

// openHistory opens the configured backend. Callers close the returned KV.
func openHistory(ctx context.Context) (store.KV, *history.Store, error) {
	kv, err := store.Open(ctx, store.Options{
		Backend:  settings.Store,
		DBPath:   settings.DBPath,
		RedisURL: settings.RedisURL,
		Prefix:   settings.RedisPrefix,
	}, cliLog)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return kv, history.NewStore(kv, history.WithLogger(cliLog)), nil
}

// withHistory runs fn against an opened history store.
func withHistory(cmd *cobra.Command, fn func(ctx context.Context, hist *history.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	kv, hist, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()
	return fn(ctx, hist)
}
