package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
)

// ServiceAuthMiddleware authenticates the collaborators that call this
// service (the entry-creation backend, dashboards, onboarding). End-user
// auth happens upstream; callers prove themselves with a shared key.
// When SERVICE_API_KEY is unset the check is disabled for local runs.
func ServiceAuthMiddleware(next http.Handler) http.Handler {
	key := os.Getenv("SERVICE_API_KEY")
	if key == "" {
		log.Println("SERVICE_API_KEY not set, service auth disabled")
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("X-Service-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
