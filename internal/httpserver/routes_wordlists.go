// internal/httpserver/routes_wordlists.go
//
// Word-list endpoints:
//   - GET /wordlists         → [{name, count}]
//   - PUT /wordlists/{name}  → replace a list from a newline-delimited body (admin)
//   - DELETE /wordlists/{name} → drop a list; the default list stays (admin)
//
// Uploaded lists go to SQLite when a word store is configured, then into
// the in-memory registry the filters read from.

package httpserver

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
)

// maxUploadBytes bounds PUT /wordlists bodies.
const maxUploadBytes = 8 << 20

// mountWordlists registers all /wordlists routes.
func (s *Server) mountWordlists() {
	s.r.Get("/wordlists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.deps.Lists.List())
	})
	s.r.With(s.requireAdmin()).Put("/wordlists/{name}", s.handlePutWordlist)
	s.r.With(s.requireAdmin()).Delete("/wordlists/{name}", s.handleDeleteWordlist)
}

func (s *Server) handlePutWordlist(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
		return
	}
	list := words.NewList(name, string(body))
	if list.Len() == 0 {
		writeError(w, http.StatusBadRequest, "empty_wordlist", name)
		return
	}

	if s.deps.WordStore != nil {
		if _, err := s.deps.WordStore.Save(r.Context(), name, "upload", list.Words()); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	s.deps.Lists.Put(list)

	hlog.FromRequest(r).Info().
		Str("list", name).
		Int("words", list.Len()).
		Str("by", adminSubject(r)).
		Msg("word list replaced")
	writeJSON(w, http.StatusOK, words.Info{Name: name, Count: list.Len()})
}

func (s *Server) handleDeleteWordlist(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == words.DefaultName {
		writeError(w, http.StatusConflict, "protected_wordlist", name)
		return
	}
	if _, err := s.deps.Lists.Get(name); err != nil {
		writeErr(w, r, err)
		return
	}

	if s.deps.WordStore != nil {
		if err := s.deps.WordStore.Delete(r.Context(), name); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	s.deps.Lists.Delete(name)

	hlog.FromRequest(r).Info().
		Str("list", name).
		Str("by", adminSubject(r)).
		Msg("word list deleted")
	w.WriteHeader(http.StatusNoContent)
}
