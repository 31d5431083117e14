package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lovoo/goka"
	"github.com/niksmo/solarcomp/internal/core/port"
	"github.com/niksmo/solarcomp/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "runProc"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// ProcessorTLSOpts returns goka options that dial brokers over TLS.
// A nil config yields no options.
func ProcessorTLSOpts(tlsCfg *tls.Config) []goka.ProcessorOption {
	if tlsCfg == nil {
		return nil
	}
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsCfg

	return []goka.ProcessorOption{
		goka.WithConsumerGroupBuilder(goka.ConsumerGroupBuilderWithConfig(cfg)),
		goka.WithConsumerSaramaBuilder(goka.SaramaConsumerBuilderWithConfig(cfg)),
		goka.WithProducerBuilder(goka.ProducerBuilderWithConfig(cfg)),
		goka.WithTopicManagerBuilder(
			goka.TopicManagerBuilderWithConfig(cfg, goka.NewTopicManagerConfig()),
		),
	}
}

// A requestEventCodec used for serde [schema.ConfigurationRequestV1]
type requestEventCodec struct {
	serde Serde
}

func (c requestEventCodec) Encode(v any) ([]byte, error) {
	const op = "requestEventCodec.Encode"
	if _, ok := v.(schema.ConfigurationRequestV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c requestEventCodec) Decode(data []byte) (any, error) {
	const op = "requestEventCodec.Decode"
	var s schema.ConfigurationRequestV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A reportEventCodec used for serde [schema.EvaluationReportV1]
type reportEventCodec struct {
	serde Serde
}

func (c reportEventCodec) Encode(v any) ([]byte, error) {
	const op = "reportEventCodec.Encode"
	if _, ok := v.(schema.EvaluationReportV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c reportEventCodec) Decode(data []byte) (any, error) {
	const op = "reportEventCodec.Decode"
	var s schema.EvaluationReportV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// EvaluationProcessorConfig names the topics and consumer group of
// [EvaluationProcessor].
type EvaluationProcessorConfig struct {
	SeedBrokers  []string
	Group        string
	InputStream  string
	OutputStream string
}

var _ port.EvaluationProcessor = (*EvaluationProcessor)(nil)

// An EvaluationProcessor evaluates configuration requests from the input
// stream and emits a report for each of them to the output stream.
//
// Requests that cannot be evaluated still produce a report carrying the
// error, keyed by the request key.
type EvaluationProcessor struct {
	opPrefix     string
	proc         processor
	evaluator    port.ConfigurationEvaluator
	outputStream goka.Stream
	newID        func() string
	now          func() time.Time
}

func NewEvaluationProcessor(
	cfg EvaluationProcessorConfig,
	requestSerde Serde,
	reportSerde Serde,
	evaluator port.ConfigurationEvaluator,
	opts ...goka.ProcessorOption,
) (*EvaluationProcessor, error) {
	const op = "NewEvaluationProcessor"

	if evaluator == nil {
		return nil, opErr(errors.New("evaluator is nil"), op)
	}

	p := &EvaluationProcessor{
		opPrefix:     "EvaluationProcessor",
		evaluator:    evaluator,
		outputStream: goka.Stream(cfg.OutputStream),
		newID:        uuid.NewString,
		now:          time.Now,
	}

	gg := goka.DefineGroup(goka.Group(cfg.Group),
		goka.Input(
			goka.Stream(cfg.InputStream),
			requestEventCodec{requestSerde},
			p.processFn,
		),
		goka.Output(p.outputStream, reportEventCodec{reportSerde}),
	)

	opts = append([]goka.ProcessorOption{withNonlogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(cfg.SeedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{opPrefix: p.opPrefix, gp: gp}
	return p, nil
}

func (p *EvaluationProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *EvaluationProcessor) Close() {
	p.proc.close()
}

func (p *EvaluationProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	in, ok := msg.(schema.ConfigurationRequestV1)
	requestID := in.RequestID
	if requestID == "" {
		requestID = ctx.Key()
	}
	log := slog.With(
		"op", makeOp(p.opPrefix, op), "requestID", requestID,
	)

	if !ok {
		log.Error("unexpected message type")
		return
	}

	report, err := p.evaluator.Evaluate(ctx.Context(), requestFromSchemaV1(in))
	if err != nil {
		log.Warn("request rejected", "err", err)
		ctx.Emit(p.outputStream, requestID, rejectionToSchemaV1(
			requestID, p.newID(), in.Product.Name, p.now(), err,
		))
		return
	}

	ctx.Emit(p.outputStream, requestID, reportToSchemaV1(report, requestID))
	log.Info(
		"request evaluated",
		"reportID", report.ID,
		"viable", report.Verdict.Viable,
		"violations", len(report.Verdict.Violations),
	)
}
