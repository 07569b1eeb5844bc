package middlewares

import (
	"context"
	"net/http"

	"studyhive/pkg/utils"

	"github.com/google/uuid"
)

// RequestID tags each request with a UUID for log correlation. An incoming
// X-Request-ID is honored so upstream proxies can set their own.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), utils.ContextKey("requestId"), requestID)

		utils.Logger.WithField("request_id", requestID).
			Debugf("%s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
