// filter.go
//
// filter and derive subcommands. Both read a history from --history and
// --round flags.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-filter/internal/config"
	"github.com/robalobadob/wordle/apps/go-filter/internal/guess"
	"github.com/robalobadob/wordle/apps/go-filter/internal/reqs"
	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
	"github.com/robalobadob/wordle/apps/go-filter/internal/wordstore"
)

// historyFlags are shared by filter and derive.
type historyFlags struct {
	file   string
	rounds []string
	length    int
	strict    bool
	roundCaps bool
}

func (hf *historyFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&hf.file, "history", "", `History JSON file ("-" for stdin)`)
	f.StringArrayVarP(&hf.rounds, "round", "r", nil, "Round as WORD:PATTERN (g=correct y=present b=absent); repeatable")
	f.IntVar(&hf.length, "length", 5, "Word length when no history or round gives one")
	f.BoolVar(&hf.strict, "strict", false, "Reject contradicting feedback instead of letting later rounds win")
	f.BoolVar(&hf.roundCaps, "round-caps", false, "Cap an absent letter at its count over the whole round; overrides config")
}

// load builds the history from --history, then appends each --round.
func (hf *historyFlags) load(stdin io.Reader) (guess.History, error) {
	h := guess.History{WordLength: hf.length}
	if hf.file != "" {
		var (
			raw []byte
			err error
		)
		if hf.file == "-" {
			raw, err = io.ReadAll(stdin)
		} else {
			raw, err = os.ReadFile(hf.file)
		}
		if err != nil {
			return guess.History{}, fmt.Errorf("read history: %w", err)
		}
		if err := json.Unmarshal(raw, &h); err != nil {
			return guess.History{}, fmt.Errorf("parse history: %w", err)
		}
	}
	for i, spec := range hf.rounds {
		round, err := guess.ParseRoundSpec(spec)
		if err != nil {
			return guess.History{}, err
		}
		if i == 0 && hf.file == "" {
			h.WordLength = len(round)
		}
		if h, err = h.WithRound(round); err != nil {
			return guess.History{}, err
		}
	}
	return h, nil
}

func (hf *historyFlags) options(cfg *config.Config) ([]reqs.Option, error) {
	policy := ""
	if hf.strict {
		policy = reqs.Strict.String()
	}
	opts, err := cfg.DeriveOptions(policy)
	if err != nil {
		return nil, err
	}
	if hf.roundCaps {
		opts = append(opts, reqs.WithRoundTotalCaps())
	}
	return opts, nil
}

func (a *app) deriveCmd() *cobra.Command {
	var hf historyFlags
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the requirements a history implies",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hf.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts, err := hf.options(a.cfg)
			if err != nil {
				return err
			}
			r, err := reqs.Derive(h, opts...)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
	hf.register(cmd)
	return cmd
}

func (a *app) filterCmd() *cobra.Command {
	var (
		hf       historyFlags
		wordlist string
		stored   string
		limit    int
		workers  int
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the words that fit a history",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hf.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts, err := hf.options(a.cfg)
			if err != nil {
				return err
			}
			r, err := reqs.Derive(h, opts...)
			if err != nil {
				return err
			}
			list, err := a.candidates(cmd, wordlist, stored)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Filter.Workers
			}

			var (
				matches []string
				more    bool
			)
			if workers > 1 {
				all, err := r.FilterParallel(cmd.Context(), list.Slice(), workers)
				if err != nil {
					return err
				}
				matches = all
				if limit > 0 && len(all) > limit {
					matches, more = all[:limit], true
				}
			} else {
				matches, more = words.Take(r.Filter(list.Words()), limit)
			}
			log.Debug().Str("list", list.Name).Int("candidates", list.Len()).Int("shown", len(matches)).Bool("more", more).Msg("filtered")

			out := cmd.OutOrStdout()
			if asJSON {
				if matches == nil {
					matches = []string{}
				}
				return json.NewEncoder(out).Encode(map[string]any{
					"matches":   matches,
					"count":     len(matches),
					"truncated": more,
				})
			}
			for _, w := range matches {
				fmt.Fprintln(out, w)
			}
			if more {
				fmt.Fprintf(cmd.ErrOrStderr(), "(more than %d matches; raise --limit)\n", limit)
			}
			return nil
		},
	}
	hf.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&wordlist, "wordlist", "w", "", "Newline-delimited word list file (default: configured or embedded list)")
	f.StringVar(&stored, "stored", "", "Name of a word list in the SQLite store")
	f.IntVarP(&limit, "limit", "n", 10, "Maximum matches to print (0 = all)")
	f.IntVar(&workers, "workers", 1, "Goroutines for filtering; overrides config")
	f.BoolVar(&asJSON, "json", false, "Print {matches, count, truncated} as JSON")
	return cmd
}

// candidates resolves the word list for filter: an explicit file, a stored
// list, or the default list.
func (a *app) candidates(cmd *cobra.Command, file, stored string) (*words.List, error) {
	switch {
	case file != "":
		return words.ReadFile(file, file)
	case stored != "":
		ws, err := wordstore.Open(a.cfg.Words.Database)
		if err != nil {
			return nil, err
		}
		defer ws.Close()
		return ws.Load(cmd.Context(), stored)
	}
	return words.Default(a.cfg.Words.File)
}
