// admin.go
//
// Admin subcommands: import a word list into SQLite, mint an admin JWT,
// and write the effective configuration.

package main

import (
	"errors"
	"fmt"
	"iter"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-filter/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
	"github.com/robalobadob/wordle/apps/go-filter/internal/wordstore"
)

func (a *app) importCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "import NAME FILE",
		Short: "Store a newline-delimited word list in the SQLite store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, file := args[0], args[1]
			if a.cfg.Words.Database == "" {
				return errors.New("no database configured (words.database / DATABASE_PATH)")
			}
			list, err := words.ReadFile(name, file)
			if err != nil {
				return err
			}
			if list.Len() == 0 {
				return fmt.Errorf("%s has no words", file)
			}

			ws, err := wordstore.Open(a.cfg.Words.Database)
			if err != nil {
				return err
			}
			defer ws.Close()

			seq := list.Words()
			if !quiet {
				bar := progressbar.NewOptions(list.Len(),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription("importing "+name),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				defer bar.Finish()
				seq = ticking(seq, func() { _ = bar.Add(1) })
			}

			n, err := ws.Save(cmd.Context(), name, file, seq)
			if err != nil {
				return err
			}
			log.Info().Str("list", name).Str("file", file).Int("words", n).Msg("imported")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d words\n", name, n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}

// ticking calls tick after each value seq yields.
func ticking(seq iter.Seq[string], tick func()) iter.Seq[string] {
	return func(yield func(string) bool) {
		for v := range seq {
			if !yield(v) {
				return
			}
			tick()
		}
	}
}

func (a *app) tokenCmd() *cobra.Command {
	var (
		subject string
		days    int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin JWT for PUT and DELETE /wordlists/{name}",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.Auth.JWTExpiresDays
			}
			tok, exp, err := httpserver.SignAdminToken(a.cfg.Auth.JWTSecret, subject, days)
			if err != nil {
				return err
			}
			log.Debug().Str("sub", subject).Time("exp", exp).Msg("token signed")
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	cmd.Flags().IntVar(&days, "days", 14, "Days until expiry; defaults to config")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config PATH",
		Short: "Write the effective configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.SaveToFile(args[0]); err != nil {
				return err
			}
			log.Info().Str("path", args[0]).Msg("config written")
			fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}
