package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/propfirm/config"
	"github.com/rustyeddy/propfirm/journal"
	"github.com/rustyeddy/propfirm/journal/postgres"
)

var rootCmd = &cobra.Command{
	Use:   "propfirm",
	Short: "Evaluate funded-trader accounts against their stage rules",
	Long: `Propfirm checks a trader's daily performance against the rules of the
evaluation stage they are in, and reports per-rule status together with an
overall verdict.

It provides tools for:
  - Importing rule templates in the legacy or stage-list shape
  - Creating evaluations and importing daily P/L history
  - Evaluating an account as of any day, as JSON, Org or CSV`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile  string
	logLevel string

	cfg    = config.Default()
	logger = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON); defaults apply when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		c = loaded
	}
	if logLevel != "" {
		c.Log.Level = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c

	l, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func newLogger(w io.Writer, lc config.LogConfig) (zerolog.Logger, error) {
	lvl, err := lc.ZerologLevel()
	if err != nil {
		return zerolog.Nop(), err
	}
	if lc.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// openJournal opens the configured store. The caller closes it.
func openJournal(ctx context.Context) (journal.Journal, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	case "sqlite":
		j, err := journal.NewSQLite(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
