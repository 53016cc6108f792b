// internal/httpserver/routes_sessions.go
//
// Sessions hold a guess history server-side so a client can submit one
// round at a time:
//   - POST   /sessions              → {id, word_length}
//   - GET    /sessions/{id}         → history, requirement and matches
//   - POST   /sessions/{id}/rounds  → append a round, same body as GET
//   - DELETE /sessions/{id}
//
// A round is given as explicit letters, as word + pattern ("crane",
// "gy_b_"), or as word + answer when the answer is known.

package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/go-filter/internal/guess"
	"github.com/robalobadob/wordle/apps/go-filter/internal/reqs"
	"github.com/robalobadob/wordle/apps/go-filter/internal/store"
)

// defaultWordLength is used when POST /sessions omits word_length.
const defaultWordLength = 5

type newSessionReq struct {
	WordLength int `json:"word_length"`
}

type roundReq struct {
	Letters []guess.LetterGuess `json:"letters,omitempty"`
	Word    string              `json:"word,omitempty"`
	Pattern string              `json:"pattern,omitempty"`
	Answer  string              `json:"answer,omitempty"`
}

type sessionRes struct {
	ID          string            `json:"id"`
	WordLength  int               `json:"word_length"`
	Rounds      int               `json:"rounds"`
	History     guess.History     `json:"history"`
	Requirement *reqs.Requirement `json:"requirement"`
	Matches     []string          `json:"matches"`
	Count       int               `json:"count"`
	Truncated   bool              `json:"truncated"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// mountSessions registers all /sessions routes.
func (s *Server) mountSessions() {
	s.r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/rounds", s.handleAddRound)
		r.Delete("/{id}", s.handleDeleteSession)
	})
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	if req.WordLength == 0 {
		req.WordLength = defaultWordLength
	}
	sess, err := store.NewSession(req.WordLength)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := s.deps.Sessions.Save(r.Context(), sess); err != nil {
		writeErr(w, r, err)
		return
	}
	s.deps.Metrics.Sessions.Set(float64(s.deps.Sessions.Len()))
	hlog.FromRequest(r).Debug().Str("session", sess.ID).Int("word_length", req.WordLength).Msg("session created")
	writeJSON(w, http.StatusCreated, map[string]any{"id": sess.ID, "word_length": req.WordLength})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, sess)
}

func (s *Server) handleAddRound(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req roundReq
	if !decodeBody(w, r, &req) {
		return
	}
	round, err := req.round()
	if err != nil {
		writeErr(w, r, err)
		return
	}

	// Refuse rounds that would leave the session underivable. The check runs
	// inside the store's lock so concurrent rounds see each other.
	policy := r.URL.Query().Get("policy")
	sess, err := s.deps.Sessions.AddRound(r.Context(), id, round, func(next guess.History) error {
		_, err := s.derive(next, policy)
		return err
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, err)
		return
	}
	s.deps.Metrics.Sessions.Set(float64(s.deps.Sessions.Len()))
	w.WriteHeader(http.StatusNoContent)
}

// writeSession renders sess with its current requirement and matches.
// Query parameters: limit, wordlist, policy.
func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, sess *store.Session) {
	q := r.URL.Query()
	limit := s.cfg.Filter.Limit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_limit", v)
			return
		}
		limit = n
	}

	rq, err := s.derive(sess.History, q.Get("policy"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	list, err := s.list(q.Get("wordlist"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	matches, truncated, err := s.runFilter(r.Context(), rq, list, limit)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, status, sessionRes{
		ID:          sess.ID,
		WordLength:  sess.History.WordLength,
		Rounds:      sess.History.NumRounds(),
		History:     sess.History,
		Requirement: rq,
		Matches:     matches,
		Count:       len(matches),
		Truncated:   truncated,
		CreatedAt:   sess.CreatedAt,
		UpdatedAt:   sess.UpdatedAt,
	})
}

// round converts whichever form the request used into letter guesses.
func (req roundReq) round() ([]guess.LetterGuess, error) {
	switch {
	case len(req.Letters) > 0:
		return req.Letters, nil
	case req.Word != "" && req.Pattern != "":
		return guess.ParseRound(req.Word, req.Pattern)
	case req.Word != "" && req.Answer != "":
		return guess.Score(req.Answer, req.Word)
	}
	return nil, fmt.Errorf("%w: round needs letters, word+pattern or word+answer", guess.ErrMalformedHistory)
}
