// internal/httpserver/auth.go
//
// Admin tokens: HS256 JWTs carrying role=admin, required to replace word
// lists. Tokens are minted offline with `wordle-filter token`.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminCookieName is checked when no Authorization header is present.
const adminCookieName = "wordle_admin"

// errNotAdmin marks a valid token that lacks the admin role.
var errNotAdmin = errors.New("not an admin token")

// SignAdminToken creates an HS256 JWT for subject that expires after days.
func SignAdminToken(secret, subject string, days int) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("empty jwt secret")
	}
	now := time.Now()
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// parseAdminToken validates tok and returns its subject.
func parseAdminToken(secret, tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return "", errNotAdmin
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token without subject")
	}
	return sub, nil
}

// ctxAdminKey is the context key type for the admin subject.
type ctxAdminKey struct{}

// requireAdmin enforces a valid admin JWT and stores its subject in the
// request context.
func (s *Server) requireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "")
				return
			}
			sub, err := parseAdminToken(s.cfg.Auth.JWTSecret, tok)
			if errors.Is(err, errNotAdmin) {
				writeError(w, http.StatusForbidden, "forbidden", err.Error())
				return
			}
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), ctxAdminKey{}, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// adminSubject returns the subject set by requireAdmin, or "".
func adminSubject(r *http.Request) string {
	sub, _ := r.Context().Value(ctxAdminKey{}).(string)
	return sub
}

// bearerOrCookie extracts a bearer token from Authorization header or admin cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(adminCookieName); err == nil {
		return c.Value
	}
	return ""
}
