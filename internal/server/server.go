package server

import (
	"net/http"

	"github.com/aleister1102/canonicald/internal/config"
	"github.com/aleister1102/canonicald/internal/datastore"
	"github.com/aleister1102/canonicald/internal/reconciler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Server exposes the canonical result ingestion API.
type Server struct {
	serverCfg  config.ServerConfig
	ingestCfg  config.IngestConfig
	reconciler *reconciler.Reconciler
	store      datastore.CanonicalStore
	archive    *datastore.FindingArchive // nil when archiving is disabled
	validate   *validator.Validate
	limiter    *rate.Limiter // nil when rate limiting is disabled
	logger     zerolog.Logger
}

// NewServer wires the ingestion pipeline behind HTTP handlers.
func NewServer(
	serverCfg config.ServerConfig,
	ingestCfg config.IngestConfig,
	rec *reconciler.Reconciler,
	store datastore.CanonicalStore,
	archive *datastore.FindingArchive,
	logger zerolog.Logger,
) *Server {
	var limiter *rate.Limiter
	if serverCfg.RateLimitPerSecond > 0 {
		burst := serverCfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(serverCfg.RateLimitPerSecond), burst)
	}

	return &Server{
		serverCfg:  serverCfg,
		ingestCfg:  ingestCfg,
		reconciler: rec,
		store:      store,
		archive:    archive,
		validate:   validator.New(),
		limiter:    limiter,
		logger:     logger.With().Str("module", "Server").Logger(),
	}
}

// Routes returns the chi router for the service.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverMiddleware)
	r.Use(s.corsMiddleware)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.With(s.rateLimitMiddleware).Post("/canonical-results", s.handleIngest)
		r.Get("/scans/{scanID}/canonical-results", s.handleListResults)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	results, err := s.store.ListByScan(r.Context(), scanID)
	if err != nil {
		s.logger.Error().Err(err).Str("scan_id", scanID).Msg("Failed to list canonical results")
		writeError(w, http.StatusInternalServerError, "failed to list canonical results")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scanId":  scanID,
		"count":   len(results),
		"results": results,
	})
}
