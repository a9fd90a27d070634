package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chris/retailer-services/pkg/account"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/respond"
)

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

type claimsKey struct{}

// TokenVerifier checks a session token.
type TokenVerifier interface {
	Verify(token string) (*account.Claims, error)
}

// Authenticate requires a valid session token, read from the token cookie or
// an "Authorization: Bearer" header, and stores its claims in the context.
func Authenticate(tokens TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				respond.Error(w, r, apperr.Unauthorized("authentication required"))
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				respond.Error(w, r, apperr.Unauthorized("invalid or expired session").Wrap(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole rejects principals whose role differs from role. It must run
// after Authenticate.
func RequireRole(role models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				respond.Error(w, r, apperr.Unauthorized("authentication required"))
				return
			}
			if claims.Role != role {
				respond.Error(w, r, apperr.Forbidden("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *account.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the claims stored by Authenticate.
func ClaimsFrom(ctx context.Context) (*account.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*account.Claims)
	return claims, ok && claims != nil
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
