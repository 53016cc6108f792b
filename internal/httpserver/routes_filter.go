// internal/httpserver/routes_filter.go
//
// Stateless derive/filter endpoints:
//   - POST /derive → requirement for a history
//   - POST /filter → requirement plus matching words from a list
//
// Both accept an optional "policy" ("latest" | "strict") overriding the
// server's configured fixed-position policy.

package httpserver

import (
	"context"
	"errors"
	"iter"
	"net/http"

	"github.com/robalobadob/wordle/apps/go-filter/internal/guess"
	"github.com/robalobadob/wordle/apps/go-filter/internal/reqs"
	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
)

type deriveReq struct {
	History guess.History `json:"history"`
	Policy  string        `json:"policy,omitempty"`
}

type filterReq struct {
	History  guess.History `json:"history"`
	Policy   string        `json:"policy,omitempty"`
	Wordlist string        `json:"wordlist,omitempty"` // registry name; default list if empty
	Words    []string      `json:"words,omitempty"`    // inline candidates; wins over Wordlist
	Limit    *int          `json:"limit,omitempty"`    // 0 = no limit; absent = configured default
}

type filterRes struct {
	Requirement *reqs.Requirement `json:"requirement"`
	Matches     []string          `json:"matches"`
	Count       int               `json:"count"`
	Truncated   bool              `json:"truncated"`
}

func (s *Server) handleDerive(w http.ResponseWriter, r *http.Request) {
	var req deriveReq
	if !decodeBody(w, r, &req) {
		return
	}
	rq, err := s.derive(req.History, req.Policy)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rq)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterReq
	if !decodeBody(w, r, &req) {
		return
	}
	rq, err := s.derive(req.History, req.Policy)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	var list *words.List
	if req.Words != nil {
		list = words.FromWords("request", req.Words)
	} else if list, err = s.list(req.Wordlist); err != nil {
		writeErr(w, r, err)
		return
	}

	limit := s.cfg.Filter.Limit
	if req.Limit != nil {
		limit = *req.Limit
	}
	matches, truncated, err := s.runFilter(r.Context(), rq, list, limit)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filterRes{
		Requirement: rq,
		Matches:     matches,
		Count:       len(matches),
		Truncated:   truncated,
	})
}

// derive builds a Requirement and records the outcome. An empty policy
// uses the configured one.
func (s *Server) derive(h guess.History, policy string) (*reqs.Requirement, error) {
	opts, err := s.cfg.DeriveOptions(policy)
	if err != nil {
		return nil, errors.Join(guess.ErrMalformedHistory, err)
	}

	timer := s.deps.Metrics.Timer("derive")
	rq, err := reqs.Derive(h, opts...)
	timer.ObserveDuration()

	result := "ok"
	switch {
	case errors.Is(err, guess.ErrMalformedHistory):
		result = "malformed"
	case errors.Is(err, reqs.ErrConflictingFeedback):
		result = "conflict"
	}
	s.deps.Metrics.Derivations.WithLabelValues(result).Inc()
	return rq, err
}

// list resolves a registry name; "" means the default list.
func (s *Server) list(name string) (*words.List, error) {
	if name == "" {
		name = words.DefaultName
	}
	return s.deps.Lists.Get(name)
}

// runFilter returns up to limit matches (all when limit <= 0) and whether
// more exist. Large lists go through the sharded filter when workers > 1.
func (s *Server) runFilter(ctx context.Context, rq *reqs.Requirement, list *words.List, limit int) ([]string, bool, error) {
	timer := s.deps.Metrics.Timer("filter")
	defer timer.ObserveDuration()

	var (
		out       []string
		truncated bool
		examined  int
	)
	if workers := s.cfg.Filter.Workers; workers > 1 {
		all, err := rq.FilterParallel(ctx, list.Slice(), workers)
		if err != nil {
			return nil, false, err
		}
		examined = list.Len()
		out = all
		if limit > 0 && len(all) > limit {
			out, truncated = all[:limit], true
		}
	} else {
		out, truncated = words.Take(rq.Filter(counted(list.Words(), &examined)), limit)
	}
	if out == nil {
		out = []string{}
	}

	s.deps.Metrics.Candidates.Add(float64(examined))
	s.deps.Metrics.Matches.Add(float64(len(out)))
	return out, truncated, nil
}

// counted passes seq through, counting the values pulled from it.
func counted(seq iter.Seq[string], n *int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for v := range seq {
			*n++
			if !yield(v) {
				return
			}
		}
	}
}
