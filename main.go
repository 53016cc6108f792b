// Command wordle-filter narrows Wordle candidate words from guess feedback.
//
//	wordle-filter serve                         HTTP API
//	wordle-filter filter --round crane:bbybg    print matching words
//	wordle-filter derive --history h.json       print derived requirements
//	wordle-filter import NAME FILE              store a word list in SQLite
//	wordle-filter token                         mint an admin JWT
//	wordle-filter config PATH                   write the effective config
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-filter/internal/config"
)

const (
	Version = "0.3.0"
	appName = "wordle-filter"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by subcommands once the root has loaded config.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Filter Wordle candidates from guess feedback",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format (json, console); overrides config")

	cmd.AddCommand(
		a.serveCmd(),
		a.filterCmd(),
		a.deriveCmd(),
		a.importCmd(),
		a.tokenCmd(),
		a.configCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// load reads .env, the config file and the environment, then applies flag
// overrides and configures the global logger.
func (a *app) load(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	setupLogging(cfg.Log, cmd.ErrOrStderr())
	return nil
}

// setupLogging points the global zerolog logger at w.
func setupLogging(lc config.LogConfig, w io.Writer) {
	if lvl, err := zerolog.ParseLevel(lc.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if lc.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
