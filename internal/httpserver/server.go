// internal/httpserver/server.go
//
// HTTP server wiring for the wordle filter.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Stateless endpoints: POST /derive, POST /filter.
//   - Sessions that grow one round at a time: /sessions/*.
//   - Word lists: GET /wordlists, PUT and DELETE /wordlists/{name} (admin JWT).
//
// Notes:
//   - Every error body is {"error": code, "detail": message}.
//   - Handlers never mutate the registry's lists; uploads replace them whole.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-filter/internal/config"
	"github.com/robalobadob/wordle/apps/go-filter/internal/guess"
	"github.com/robalobadob/wordle/apps/go-filter/internal/metrics"
	"github.com/robalobadob/wordle/apps/go-filter/internal/reqs"
	"github.com/robalobadob/wordle/apps/go-filter/internal/store"
	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
	"github.com/robalobadob/wordle/apps/go-filter/internal/wordstore"
)

// Deps are the collaborators a Server needs. Lists and Sessions are
// required; WordStore may be nil (uploads then live in memory only).
type Deps struct {
	Lists     *words.Registry
	Sessions  store.Store
	WordStore *wordstore.Store
	Metrics   *metrics.Metrics
	Logger    *zerolog.Logger
}

// Server bundles router, config, and dependencies.
type Server struct {
	r    *chi.Mux
	cfg  *config.Config
	deps Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		deps.Logger = &log.Logger
	}
	s := &Server{r: chi.NewRouter(), cfg: cfg, deps: deps}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(*deps.Logger))     // request-scoped logger
	s.r.Use(logRequestID)                      // tag it with the request id
	s.r.Use(hlog.AccessHandler(accessLog))     // one line per request
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(cfg.Server.Timeout)) // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(cors(cfg.Server.ClientOrigin))     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordle-filter",
			"endpoints": []string{
				"/health", "/metrics", "POST /derive", "POST /filter",
				"/wordlists", "/sessions",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	s.r.Post("/derive", s.handleDerive)
	s.r.Post("/filter", s.handleFilter)
	s.mountWordlists()
	s.mountSessions()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// logRequestID copies chi's request id into the request logger.
func logRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ responses ----------------------------------

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorBody{Error: code, Detail: detail})
}

// writeErr maps domain errors to status codes.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, guess.ErrMalformedHistory):
		writeError(w, http.StatusBadRequest, "malformed_history", err.Error())
	case errors.Is(err, reqs.ErrConflictingFeedback):
		writeError(w, http.StatusUnprocessableEntity, "conflicting_feedback", err.Error())
	case errors.Is(err, words.ErrUnknownList):
		writeError(w, http.StatusNotFound, "unknown_wordlist", err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "timeout", err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal", "")
	}
}

// decodeBody decodes a JSON request body into v. Malformed history errors
// raised by the guess codec keep their identity.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, guess.ErrMalformedHistory) {
			writeErr(w, r, err)
		} else {
			writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		}
		return false
	}
	return true
}
