// Package authtoken implements the bearer-token check guarding the API.
// Validation is a strategy so the static shared-secret check used today can
// be swapped for JWT or session validation without touching the middleware.
package authtoken

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// Validator decides whether a presented token grants access.
type Validator interface {
	Validate(token string) bool
}

// StaticValidator accepts exactly one shared secret, compared in constant
// time.
type StaticValidator struct {
	token string
}

// NewStaticValidator creates a validator for the given secret.
func NewStaticValidator(token string) *StaticValidator {
	return &StaticValidator{token: token}
}

func (v *StaticValidator) Validate(token string) bool {
	if v.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.token), []byte(token)) == 1
}

// Middleware rejects requests whose Authorization header does not carry a
// valid bearer token. The response body matches the rest of the API: a JSON
// object with a message field.
func Middleware(v Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || !v.Validate(token) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid or missing token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
