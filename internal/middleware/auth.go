package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MrKriegler/go-storefront/pkg/problem"
)

// PublicPrefixes are served without an API key.
var PublicPrefixes = []string{"/health", "/readyz", "/swagger"}

// SimpleAPIKey guards every route except PublicPrefixes with a shared key.
// The key is read from X-API-Key, then Authorization: Bearer. EventSource
// clients cannot set headers, so GET requests may pass it as ?api_key=.
func SimpleAPIKey(apiKey string) func(http.Handler) http.Handler {
	apiKeyBytes := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range PublicPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if subtle.ConstantTimeCompare([]byte(requestKey(r)), apiKeyBytes) != 1 {
				problem.Write(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("api_key")
	}
	return ""
}
