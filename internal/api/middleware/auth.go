package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/theyool/booking-service/internal/api/handlers"
)

type actorKey struct{}

// AdminClaims admin token claims; the actor is the email, or the subject if there is none
type AdminClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// WithActor stores the authenticated admin in ctx
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext the admin set by AdminAuth
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok && actor != ""
}

// AdminAuth validates an HS256 bearer token signed with secret
func AdminAuth(secret string, logger Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondUnauthorized(w, "missing bearer token")
				return
			}

			var claims AdminClaims
			token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				logger.Warn("%s %s - invalid admin token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, "invalid token")
				return
			}

			actor := claims.Email
			if actor == "" {
				actor = claims.Subject
			}
			if actor == "" {
				logger.Warn("%s %s - admin token without subject", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

var errCronSecretNotConfigured = errors.New("cron secret is not configured")

// CronAuth requires Authorization: Bearer <secret>. An empty secret disables the
// cron routes instead of opening them.
func CronAuth(secret string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				logger.Error("%s %s - %v", r.Method, r.URL.Path, errCronSecretNotConfigured)
				handlers.RespondError(w, http.StatusInternalServerError, errCronSecretNotConfigured.Error())
				return
			}

			raw, ok := bearerToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(raw), []byte(secret)) != 1 {
				logger.Warn("%s %s - unauthorized cron request", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}
