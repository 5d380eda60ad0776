package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS allows the configured origins. An empty list allows any origin without credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	opts := []handlers.CORSOption{
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Requested-With"}),
		handlers.ExposedHeaders([]string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}),
		handlers.MaxAge(600),
	}

	if len(origins) == 0 {
		opts = append(opts, handlers.AllowedOrigins([]string{"*"}))
	} else {
		opts = append(opts, handlers.AllowedOrigins(origins), handlers.AllowCredentials())
	}

	return handlers.CORS(opts...)
}
