package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aleister1102/canonicald/internal/models"
)

// ingestRequest is the wire shape of one ingestion batch. The findings list
// is accepted under either key. Results is a pointer slice so field presence
// is observable: a present "results" is authoritative even when empty, and
// "canonicalResults" is consulted only when "results" is absent.
type ingestRequest struct {
	ScanID           string               `json:"scanId" validate:"required"`
	WorkspaceID      string               `json:"workspaceId" validate:"required"`
	Results          *[]models.RawFinding `json:"results"`
	CanonicalResults []models.RawFinding  `json:"canonicalResults"`
}

func (r *ingestRequest) findings() []models.RawFinding {
	if r.Results != nil {
		return *r.Results
	}
	return r.CanonicalResults
}

type invalidSample struct {
	Index    int    `json:"index"`
	Platform string `json:"platform,omitempty"`
	URL      string `json:"url,omitempty"`
	Reason   string `json:"reason"`
}

// ingestResponse reports batch outcome. Processed counts raw input items;
// CanonicalResults counts identities actually upserted.
type ingestResponse struct {
	Success          bool            `json:"success"`
	Processed        int             `json:"processed"`
	CanonicalResults int             `json:"canonicalResults"`
	Invalid          int             `json:"invalid"`
	Errors           int             `json:"errors"`
	InvalidSamples   []invalidSample `json:"invalidSamples,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "scanId and workspaceId are required")
		return
	}

	rawFindings := req.findings()
	if s.ingestCfg.MaxBatchSize > 0 && len(rawFindings) > s.ingestCfg.MaxBatchSize {
		writeError(w, http.StatusBadRequest, "batch exceeds maximum size")
		return
	}
	if len(rawFindings) == 0 {
		writeJSON(w, http.StatusOK, ingestResponse{Success: true})
		return
	}

	now := time.Now()
	findings := make([]models.Finding, 0, len(rawFindings))
	var samples []invalidSample
	invalid := 0
	for i, raw := range rawFindings {
		finding, reason := CoerceFinding(raw, now)
		if reason != "" {
			invalid++
			if len(samples) < s.ingestCfg.InvalidSampleLimit {
				samples = append(samples, invalidSample{
					Index:    i,
					Platform: firstNonEmpty(raw.Platform, raw.PlatformName),
					URL:      firstNonEmpty(raw.URL, raw.PrimaryURL),
					Reason:   reason,
				})
			}
			continue
		}
		findings = append(findings, *finding)
	}

	s.logger.Info().
		Str("scan_id", req.ScanID).
		Int("received", len(rawFindings)).
		Int("valid", len(findings)).
		Int("invalid", invalid).
		Msg("Received canonical results batch")

	if len(findings) == 0 {
		writeJSON(w, http.StatusOK, ingestResponse{
			Success:        true,
			Processed:      len(rawFindings),
			Invalid:        invalid,
			InvalidSamples: samples,
		})
		return
	}

	if s.archive != nil {
		if err := s.archive.ArchiveBatch(r.Context(), req.ScanID, req.WorkspaceID, findings); err != nil {
			s.logger.Error().Err(err).Str("scan_id", req.ScanID).Msg("Failed to archive findings batch")
		}
	}

	summary := s.reconciler.ProcessBatch(r.Context(), req.ScanID, req.WorkspaceID, findings)

	writeJSON(w, http.StatusOK, ingestResponse{
		Success:          true,
		Processed:        len(rawFindings),
		CanonicalResults: summary.Upserted,
		Invalid:          invalid,
		Errors:           summary.Errors,
		InvalidSamples:   samples,
	})
}
