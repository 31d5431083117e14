package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/niksmo/solarcomp/internal/core/port"
	"github.com/niksmo/solarcomp/pkg/retry"
	"github.com/niksmo/solarcomp/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	produceAttempts = 3
	produceDelay    = 50 * time.Millisecond
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	retry    retry.RetryConfig
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := retry.Do(ctx, p.retry, func() error {
		res := p.cl.ProduceSync(ctx, rs...)
		if err := res.FirstErr(); err != nil {
			log.Warn("produce attempt failed", "err", err)
			return err
		}
		return nil
	})
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func isRetriable(err error) bool {
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, kgo.ErrClientClosed)
}

var _ port.ReportPublisher = ReportsProducer{}

// A ReportsProducer publishes [domain.Report] to the reports topic keyed
// by report id.
type ReportsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewReportsProducer(
	opts ...ProducerOpt,
) (ReportsProducer, error) {
	const op = "NewReportsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ReportsProducer{}, opErr(err, op)
		}
	}

	opPrefix := "ReportsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
		retry: retry.RetryConfig{
			MaxAttempts: produceAttempts,
			Backoff:     retry.ExponentialBackoff(produceDelay),
			ShouldRetry: isRetriable,
		},
	}

	return ReportsProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p ReportsProducer) Close() {
	p.producer.close()
}

func (p ReportsProducer) PublishReport(
	ctx context.Context, v domain.Report,
) error {
	const op = "PublishReport"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p ReportsProducer) createRecord(v domain.Report) (*kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(v)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(s.ReportID), Value: b}, nil
}

// Reports evaluated over HTTP have no upstream request, so the report id
// doubles as the request id.
func (ReportsProducer) toSchema(v domain.Report) schema.EvaluationReportV1 {
	return reportToSchemaV1(v, v.ID)
}
