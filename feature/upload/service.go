package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	gosync "sync"

	"dealer-sync/core/sync"
	"dealer-sync/feature/inventory"
	"dealer-sync/feature/reports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunResult bundles the outcome of one uploaded feed. Report is nil when the
// feed was rejected for row errors without any synchronisation taking place.
type RunResult struct {
	ReportID  string
	Report    *sync.Report
	RowErrors []inventory.RowError
}

// Rejected reports whether the feed was refused before any remote call.
func (r *RunResult) Rejected() bool {
	return r.Report == nil
}

// RowErrorStrings renders the row errors for JSON output.
func (r *RunResult) RowErrorStrings() []string {
	messages := make([]string, 0, len(r.RowErrors))
	for _, re := range r.RowErrors {
		messages = append(messages, re.String())
	}
	return messages
}

// Service parses uploaded feeds and runs them through the synchronizer.
type Service struct {
	locations    *inventory.Locations
	synchronizer *sync.Synchronizer
	archive      reports.Archive
	logger       *zap.Logger

	// Runs share one state store, so only one may execute at a time.
	mu gosync.Mutex
}

// NewService creates a new upload service.
func NewService(locations *inventory.Locations, synchronizer *sync.Synchronizer, archive reports.Archive, logger *zap.Logger) *Service {
	return &Service{
		locations:    locations,
		synchronizer: synchronizer,
		archive:      archive,
		logger:       logger,
	}
}

// Run reads a CSV feed, synchronizes it against the remote listing and
// archives the resulting report. A feed with any invalid row is rejected
// before the synchronizer runs: Report is nil and RowErrors carries the
// rejections. A partial feed must never reach the close-missing pass, where
// a row that merely failed validation would close its listed vehicle.
func (s *Service) Run(ctx context.Context, feed io.Reader, opts sync.Options) (*RunResult, error) {
	vehicles, rowErrors, err := inventory.ReadVehicles(feed, s.locations)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	if len(rowErrors) > 0 {
		return &RunResult{RowErrors: rowErrors}, nil
	}

	s.mu.Lock()
	report := s.synchronizer.Run(ctx, vehicles, opts)
	s.mu.Unlock()

	result := &RunResult{
		ReportID:  uuid.NewString(),
		Report:    report,
		RowErrors: rowErrors,
	}

	data, err := json.Marshal(result.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := s.archive.Put(ctx, result.ReportID, data); err != nil {
		// The sync already happened; losing the archive copy is not fatal.
		s.logger.Error("Failed to archive report",
			zap.String("report_id", result.ReportID), zap.Error(err))
	}

	return result, nil
}

// Document renders an executed run as the JSON document returned to clients
// and stored in the archive.
func (r *RunResult) Document() map[string]any {
	doc := r.Report.Detailed()
	doc["report_id"] = r.ReportID
	doc["row_errors"] = r.RowErrorStrings()
	return doc
}
