package transport

import (
	"crypto/subtle"
	"net/http"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/gorilla/mux"
)

// InternalMiddleware checks the static service key sent by the consume worker.
// An empty configured key locks the internal routes entirely.
func InternalMiddleware(apiKey string) mux.MiddlewareFunc {
	expected := []byte("Bearer " + apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("Authorization"))
			if apiKey == "" || subtle.ConstantTimeCompare(got, expected) != 1 {
				writeError(w, errors.SetCustomError(constant.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
