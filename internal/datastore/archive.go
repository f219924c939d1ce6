package datastore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/aleister1102/canonicald/internal/common"
	"github.com/aleister1102/canonicald/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// ArchivedFinding is the flattened parquet row for one raw finding accepted
// by the ingestion endpoint.
type ArchivedFinding struct {
	ScanID              string  `parquet:"scan_id"`
	WorkspaceID         string  `parquet:"workspace_id"`
	Platform            string  `parquet:"platform"`
	Username            string  `parquet:"username"`
	URL                 string  `parquet:"url"`
	Provider            string  `parquet:"provider"`
	Severity            string  `parquet:"severity,optional"`
	Confidence          float64 `parquet:"confidence"`
	IsVerified          bool    `parquet:"is_verified"`
	VerificationStatus  string  `parquet:"verification_status,optional"`
	FindingID           string  `parquet:"finding_id,optional"`
	RiskScore           float64 `parquet:"risk_score,optional"`
	AISummary           string  `parquet:"ai_summary,optional"`
	RemediationPriority string  `parquet:"remediation_priority,optional"`
	ObservedAt          string  `parquet:"observed_at,optional"`
	ReceivedAt          int64   `parquet:"received_at,timestamp"`
}

// FindingArchive writes accepted raw findings to parquet files for audit and
// replay. Parquet files are immutable once the footer is written, so each
// batch gets its own file named by day plus arrival nanoseconds; LoadDay
// reassembles a day by globbing its files. Archive failures are reported to
// the caller but are never allowed to fail ingestion.
type FindingArchive struct {
	basePath string
	logger   zerolog.Logger
}

// NewFindingArchive creates a FindingArchive rooted at basePath.
func NewFindingArchive(basePath string, logger zerolog.Logger) *FindingArchive {
	return &FindingArchive{
		basePath: basePath,
		logger:   logger.With().Str("module", "FindingArchive").Logger(),
	}
}

// ArchiveBatch writes a batch of findings to a new parquet file.
func (fa *FindingArchive) ArchiveBatch(ctx context.Context, scanID, workspaceID string, findings []models.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	if fa.basePath == "" {
		return common.NewValidationError("archive_base_path", fa.basePath, "archive base path is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	filePath, err := fa.prepareOutputFile(now)
	if err != nil {
		return err
	}

	records := make([]ArchivedFinding, 0, len(findings))
	for _, finding := range findings {
		records = append(records, toArchivedFinding(scanID, workspaceID, finding, now))
	}

	if err := fa.writeToParquetFile(filePath, records); err != nil {
		return err
	}

	fa.logger.Info().Str("file_path", filePath).Int("records_written", len(records)).Msg("Archived raw findings batch")
	return nil
}

// LoadDay reads back all findings archived on the given day, in batch
// arrival order.
func (fa *FindingArchive) LoadDay(ctx context.Context, day time.Time) ([]ArchivedFinding, error) {
	if fa.basePath == "" {
		return nil, common.NewValidationError("archive_base_path", fa.basePath, "archive base path is not configured")
	}

	pattern := filepath.Join(fa.basePath, "findings", "findings-"+day.UTC().Format("20060102")+"-*.parquet")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, common.WrapError(err, "invalid findings archive pattern "+pattern)
	}
	sort.Strings(matches)

	records := make([]ArchivedFinding, 0)
	for _, filePath := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileRecords, err := fa.readArchiveFile(filePath)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

// readArchiveFile reads one parquet batch file. The parquet reader panics on
// malformed files, so a corrupt archive file is recovered into an error.
func (fa *FindingArchive) readArchiveFile(filePath string) (records []ArchivedFinding, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = common.NewError("corrupt findings archive %s: %v", filePath, r)
		}
	}()

	file, err := os.Open(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to open findings archive "+filePath)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[ArchivedFinding](file)
	defer reader.Close()

	records = make([]ArchivedFinding, 0)
	for {
		batch := make([]ArchivedFinding, 100)
		n, err := reader.Read(batch)
		if n > 0 {
			records = append(records, batch[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, common.WrapError(err, "failed to read findings archive "+filePath)
		}
	}
	return records, nil
}

func (fa *FindingArchive) prepareOutputFile(now time.Time) (string, error) {
	archiveDir := filepath.Join(fa.basePath, "findings")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", common.WrapError(err, "failed to create findings archive directory "+archiveDir)
	}
	fileName := "findings-" + now.UTC().Format("20060102") + "-" + strconv.FormatInt(now.UnixNano(), 10) + ".parquet"
	return filepath.Join(archiveDir, fileName), nil
}

func (fa *FindingArchive) writeToParquetFile(filePath string, records []ArchivedFinding) error {
	file, err := os.OpenFile(filePath, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return common.WrapError(err, "failed to open findings archive file "+filePath)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ArchivedFinding](file, parquet.Compression(&parquet.Zstd))

	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return common.WrapError(err, "failed to write findings to parquet file")
	}
	return writer.Close()
}

func toArchivedFinding(scanID, workspaceID string, finding models.Finding, now time.Time) ArchivedFinding {
	record := ArchivedFinding{
		ScanID:              scanID,
		WorkspaceID:         workspaceID,
		Platform:            finding.Platform,
		Username:            finding.Username,
		URL:                 finding.URL,
		Provider:            finding.Provider,
		Severity:            finding.Severity,
		Confidence:          finding.Confidence,
		IsVerified:          finding.IsVerified,
		VerificationStatus:  finding.VerificationStatus,
		FindingID:           finding.FindingID,
		AISummary:           finding.AISummary,
		RemediationPriority: finding.RemediationPriority,
		ObservedAt:          finding.ObservedAt,
		ReceivedAt:          now.UnixMilli(),
	}
	if finding.RiskScore != nil {
		record.RiskScore = *finding.RiskScore
	}
	return record
}
