package server

import (
	"net/http"
)

const callbackTokenHeader = "X-Callback-Token"

// corsMiddleware answers preflight requests and tags every response with
// permissive CORS headers. The callback header must be listed or browsers
// refuse to send it.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, content-type, x-callback-token")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates the shared-secret callback token before any
// processing. A missing server-side token is a configuration error, not an
// authentication failure, and is reported as such.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := s.serverCfg.CallbackToken
		if expected == "" {
			s.logger.Error().Msg("Callback token not configured")
			writeError(w, http.StatusInternalServerError, "server misconfiguration")
			return
		}

		if r.Header.Get(callbackTokenHeader) != expected {
			s.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Invalid callback token")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware applies the shared token bucket to the ingest route.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware converts panics into logged 500 responses so one bad
// request cannot take the process down.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("Recovered from panic in handler")
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
