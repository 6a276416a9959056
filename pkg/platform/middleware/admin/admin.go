// Package admin guards operator-facing endpoints: the platform control plane
// and the scheduled-job trigger.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sudsy/pkg/requestcontext"
)

// RequireAdminToken guards control-plane endpoints with a shared operator secret.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			// Use constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				writeUnauthorized(w, "admin token required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MaxCronTokenAge bounds the validity window of scheduler-minted bearer tokens.
const MaxCronTokenAge = 5 * time.Minute

// RequireCronAuth guards the scheduled-job trigger endpoint. The external
// scheduler either presents the shared secret directly in X-Cron-Secret, or a
// short-lived HS256 bearer token signed with that secret. The bearer form
// avoids replaying a long-lived static header through third-party schedulers.
func RequireCronAuth(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("X-Cron-Secret"); header != "" {
				if subtle.ConstantTimeCompare([]byte(header), []byte(secret)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			} else if bearer, ok := bearerToken(r); ok {
				if validCronJWT(bearer, secret) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()
			logger.WarnContext(ctx, "cron auth rejected",
				"request_id", requestcontext.RequestID(ctx),
				"path", r.URL.Path,
			)
			writeUnauthorized(w, "cron credentials required")
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func validCronJWT(token, secret string) bool {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return false
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ExpiresAt == nil {
		return false
	}
	// Reject tokens minted with an excessive lifetime.
	if claims.IssuedAt != nil && claims.ExpiresAt.Sub(claims.IssuedAt.Time) > MaxCronTokenAge {
		return false
	}
	return true
}

// NewCronToken mints a short-lived HS256 bearer token for the cron endpoint.
// Used by cmd/crontrigger and by schedulers that prefer signed credentials.
func NewCronToken(secret string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   "cron",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(MaxCronTokenAge)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
