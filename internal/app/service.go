// Package service runs the reconciliation pipeline: fetch a dataset from
// the configured source, deduplicate attendees, join responses and
// aggregate per department.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/evalrecon/internal/adapters/export"
	"github.com/okian/evalrecon/internal/adapters/source"
	"github.com/okian/evalrecon/pkg/logger"
	"github.com/okian/evalrecon/pkg/metrics"
)

// Service owns one Source and turns each invocation into a fresh Report.
// It holds no state between runs.
type Service struct {
	source source.Source
	log    logger.Logger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithSource sets the dataset source.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a pipeline service.
func New(opts ...Option) *Service {
	s := &Service{
		log: logger.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SourceName reports which source strategy is configured.
func (s *Service) SourceName() string {
	if s.source == nil {
		return ""
	}
	return s.source.Name()
}

// Run executes one full pipeline invocation.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}

	runID := uuid.NewString()
	ctx = logger.WithFields(ctx, logger.String("run_id", runID), logger.String("source", s.source.Name()))
	start := time.Now()

	ds, err := s.source.Load(ctx)
	if err != nil {
		metrics.RecordPipelineRun(s.source.Name(), "error", float64(time.Since(start).Milliseconds()))
		s.log.Error(ctx, "pipeline fetch failed", logger.Error(err))
		return nil, fmt.Errorf("run pipeline: %w", err)
	}

	report := Build(ds)
	report.RunID = runID
	report.Source = s.source.Name()
	report.GeneratedAt = s.now()

	elapsed := float64(time.Since(start).Milliseconds())
	s.observe(ctx, report, elapsed)
	metrics.RecordPipelineRun(s.source.Name(), "ok", elapsed)
	return report, nil
}

func (s *Service) observe(ctx context.Context, r *Report, elapsedMs float64) {
	metrics.UpdateAttendees(len(r.Attendees))
	metrics.RecordDuplicates(len(r.Duplicates))
	metrics.RecordOrphans(len(r.Orphans))
	metrics.ResetDepartmentPercent()
	for _, d := range r.Departments {
		metrics.UpdateDepartmentPercent(d.Department, d.Percent)
	}

	if n := r.RejectedAttendees + r.RejectedResponses; n > 0 {
		s.log.Warn(ctx, "rows rejected",
			logger.Int("attendees", r.RejectedAttendees),
			logger.Int("responses", r.RejectedResponses))
	}
	if len(r.Duplicates) > 0 {
		s.log.Warn(ctx, "duplicate attendees", logger.Int("entries", len(r.Duplicates)))
	}
	if len(r.Orphans) > 0 {
		s.log.Warn(ctx, "responses without attendee", logger.Int("orphans", len(r.Orphans)))
	}

	s.log.Info(ctx, "pipeline finished",
		logger.Int("attendees", len(r.Attendees)),
		logger.Int("done", r.Total.Done),
		logger.Int("pending", r.Total.Pending),
		logger.Int("percent", r.Total.Percent),
		logger.Int("departments", len(r.Departments)),
		logger.Float64("duration_ms", elapsedMs))
}

// Export runs the pipeline and renders one report kind. An empty
// selection is reported as export.ErrNothingToExport.
func (s *Service) Export(ctx context.Context, kind Kind, department string, format Format) (*File, error) {
	report, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}

	file, err := report.Export(kind, department, format)
	if errors.Is(err, export.ErrNothingToExport) {
		metrics.RecordEmptyExport(string(kind))
		s.log.Warn(ctx, "nothing to export",
			logger.String("kind", string(kind)),
			logger.String("department", department))
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", kind, err)
	}

	metrics.RecordExport(string(kind), string(format))
	s.log.Info(ctx, "export rendered",
		logger.String("file", file.Name),
		logger.Int("bytes", len(file.Data)))
	return file, nil
}
