package port

import (
	"context"
	"sync"

	"github.com/niksmo/solarcomp/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

type CatalogReader interface {
	Product(name string) (domain.ProductEntry, error)
	Component(name string) (domain.CatalogEntry, error)
	Products() []domain.ProductEntry
	Grouped() []domain.CatalogGroup
}

type CatalogBrowser interface {
	Catalog(context.Context) ([]domain.ProductEntry, []domain.CatalogGroup, error)
}

// ConfigurationEvaluator runs the pure evaluation pipeline without side effects.
type ConfigurationEvaluator interface {
	Evaluate(context.Context, domain.Request) (domain.Report, error)
}

// EvaluationSubmitter evaluates a request and publishes the report.
type EvaluationSubmitter interface {
	Submit(context.Context, domain.Request) (domain.Report, error)
}

type ReportPublisher interface {
	PublishReport(context.Context, domain.Report) error
}

type EvaluationProcessor interface {
	runnerContextWg
	closer
}
