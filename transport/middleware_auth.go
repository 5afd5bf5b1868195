package transport

import (
	"net/http"
	"strings"

	"github.com/chapavet/marketplace/application/user"
	"github.com/chapavet/marketplace/constant"
	utilsContext "github.com/chapavet/marketplace/utils/context"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/gorilla/mux"
)

// AuthMiddleware validates bearer tokens through UserApp and embeds the caller
// into the request context. Public routes pass through untouched; routes that
// accept anonymous callers get the caller attached only when a valid token is sent.
func AuthMiddleware(userApp user.UserApp) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublicPath(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if isOptionalAuthPath(r.URL.Path) {
				if ok {
					if session, err := userApp.ValidateToken(r.Context(), token); err == nil {
						r = r.WithContext(utilsContext.WithSession(r.Context(), session.UserID, session.Role, session.SessionID))
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			if !ok {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}
			session, err := userApp.ValidateToken(r.Context(), token)
			if err != nil {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			ctx := utilsContext.WithSession(r.Context(), session.UserID, session.Role, session.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware only lets callers holding the admin role through.
func AdminMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if utilsContext.GetRole(r.Context()) != constant.RoleAdmin {
				writeError(w, errors.SetCustomError(constant.ErrForbidden))
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
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return token, token != ""
}

// isPublicPath defines which endpoints need no token at all.
func isPublicPath(method, path string) bool {
	switch {
	case strings.HasPrefix(path, "/swagger/"), strings.HasPrefix(path, "/internal/"):
		return true
	case path == "/login", path == "/register", path == "/chapavet-ai":
		return true
	case method == http.MethodGet && (path == "/livestock" || strings.HasPrefix(path, "/livestock/")):
		return true
	case method == http.MethodGet && path == "/settings/payment-instructions":
		return true
	}
	return false
}

func isOptionalAuthPath(path string) bool {
	return path == "/analytics/events"
}
