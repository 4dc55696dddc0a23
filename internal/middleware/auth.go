package middleware

import (
	"net/http"
	"strings"

	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/utils"

	"go.uber.org/zap"
)

// Authenticate resolves the session token, if any, into a principal on the
// request context. Requests without a token pass through anonymously.
func Authenticate(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := tm.Parse(tokenStr)
			if err != nil {
				// An explicit bearer token that fails is an error; a stale
				// cookie only downgrades the request to anonymous.
				if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") && !hasSessionCookie(r) {
					logger.FromCtx(r.Context()).Warn("rejected bearer token", zap.Error(err))
					utils.Fail(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
				clearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireCustomer admits only customer sessions.
func RequireCustomer(next http.Handler) http.Handler {
	return requireKind(auth.KindCustomer, "please log in to continue", next)
}

// RequireAdmin admits only admin sessions.
func RequireAdmin(next http.Handler) http.Handler {
	return requireKind(auth.KindAdmin, "admin login required", next)
}

func requireKind(kind auth.Kind, loginMsg string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFrom(r.Context())
		if !ok || p.ID == 0 {
			utils.Warn(w, http.StatusUnauthorized, loginMsg)
			return
		}
		if p.Kind != kind {
			logger.FromCtx(r.Context()).Warn("principal kind not allowed",
				zap.String("kind", string(p.Kind)),
				zap.String("required", string(kind)),
				zap.Uint("id", p.ID),
				zap.String("path", r.URL.Path),
			)
			utils.Fail(w, http.StatusForbidden, "you are not allowed to access this page")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func hasSessionCookie(r *http.Request) bool {
	c, err := r.Cookie(auth.AccessTokenCookie)
	return err == nil && c.Value != ""
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
