// serve.go
//
// serve subcommand: wires word lists, sessions and metrics into the HTTP
// server and runs it until SIGINT/SIGTERM.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-filter/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-filter/internal/metrics"
	"github.com/robalobadob/wordle/apps/go-filter/internal/store"
	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
	"github.com/robalobadob/wordle/apps/go-filter/internal/wordstore"
)

func (a *app) serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port; overrides config")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	lists := words.NewRegistry()
	def, err := words.Default(a.cfg.Words.File)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load default word list")
	}
	lists.Put(def)

	var ws *wordstore.Store
	if a.cfg.Words.Database != "" {
		if ws, err = wordstore.Open(a.cfg.Words.Database); err != nil {
			log.Fatal().Err(err).Str("path", a.cfg.Words.Database).Msg("failed to open word store")
		}
		defer ws.Close()
		n, err := ws.LoadInto(ctx, lists)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load stored word lists")
		}
		log.Info().Int("lists", n).Msg("stored word lists loaded")
	}

	srv := httpserver.New(a.cfg, httpserver.Deps{
		Lists:     lists,
		Sessions:  store.NewMemoryStore(),
		WordStore: ws,
		Metrics:   metrics.New(),
	})
	log.Info().
		Str("port", a.cfg.Server.Port).
		Int("default_words", def.Len()).
		Str("policy", a.cfg.Policy().String()).
		Msg("starting wordle-filter")
	if err := srv.Start(ctx, ":"+a.cfg.Server.Port); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
