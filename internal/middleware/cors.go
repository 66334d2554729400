// Package middleware holds the HTTP middleware shared by every daytrip route.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that lets the map client, served from
// one of allowedOrigins, call the API. Each origin must be scheme + host with
// no trailing slash. Preflight results are cached by the browser for maxAge
// seconds so the client's frequent map polling does not double its requests.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         maxAge,
	})
	return c.Handler
}

const maxAge = 600
