package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/solarcomp/internal/core/advisor"
	"github.com/niksmo/solarcomp/internal/core/builder"
	"github.com/niksmo/solarcomp/internal/core/compat"
	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/niksmo/solarcomp/internal/core/metrics"
	"github.com/niksmo/solarcomp/internal/core/port"
)

var _ port.ConfigurationEvaluator = (*Service)(nil)
var _ port.EvaluationSubmitter = (*Service)(nil)
var _ port.CatalogBrowser = (*Service)(nil)

type Service struct {
	catalog   port.CatalogReader
	builder   builder.Builder
	publisher port.ReportPublisher
	now       func() time.Time
	newID     func() string
}

type Opt func(*Service)

func WithClock(now func() time.Time) Opt {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Opt {
	return func(s *Service) { s.newID = newID }
}

// New returns the evaluation service. The publisher may be nil, then
// submitted reports are only returned to the caller.
func New(
	catalog port.CatalogReader, publisher port.ReportPublisher, opts ...Opt,
) Service {
	s := Service{
		catalog:   catalog,
		builder:   builder.New(catalog),
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Evaluate builds the configuration and runs the compatibility rules,
// metrics and advisor over it. It has no side effects.
func (s Service) Evaluate(
	ctx context.Context, req domain.Request,
) (domain.Report, error) {
	const op = "Service.Evaluate"

	if err := ctx.Err(); err != nil {
		return domain.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	cfg, adjustments, err := s.builder.Build(req)
	if err != nil {
		return domain.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	verdict := compat.Evaluate(cfg)
	m := metrics.Aggregate(cfg)

	return domain.Report{
		ID:              s.newID(),
		EvaluatedAt:     s.now().UTC(),
		Configuration:   cfg,
		Verdict:         verdict,
		Metrics:         m,
		Recommendations: advisor.Advise(cfg, verdict, m),
		Adjustments:     adjustments,
	}, nil
}

// Submit evaluates the request and publishes the report. A failed publish
// is logged and does not fail the evaluation.
func (s Service) Submit(
	ctx context.Context, req domain.Request,
) (domain.Report, error) {
	const op = "Service.Submit"
	log := slog.With("op", op)

	report, err := s.Evaluate(ctx, req)
	if err != nil {
		return domain.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.publisher == nil {
		return report, nil
	}

	if err := s.publisher.PublishReport(ctx, report); err != nil {
		log.Error("failed to publish report", "reportID", report.ID, "err", err)
		return report, nil
	}
	log.Debug("report published", "reportID", report.ID, "viable", report.Verdict.Viable)
	return report, nil
}

func (s Service) Catalog(
	ctx context.Context,
) ([]domain.ProductEntry, []domain.CatalogGroup, error) {
	const op = "Service.Catalog"

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.catalog.Products(), s.catalog.Grouped(), nil
}
