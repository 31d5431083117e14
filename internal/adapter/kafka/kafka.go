package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/niksmo/solarcomp/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt creates [kgo.Client] producing to topic and pings the
// cluster. tlsCfg may be nil for plaintext listeners.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsCfg *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsCfg != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsCfg))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerClientValueOpt sets an already built client.
func ProducerClientValueOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func requestFromSchemaV1(s schema.ConfigurationRequestV1) (r domain.Request) {
	r.Product = domain.ProductChoice{
		Name:            s.Product.Name,
		VoltageRating:   optional(s.Product.VoltageRating),
		PowerWatts:      optional(s.Product.PowerWatts),
		PriceAdjustment: optional(s.Product.PriceAdjustment),
		Weight:          optional(s.Product.Weight),
	}
	if s.Product.VoltageType != nil {
		r.Product.VoltageType = *s.Product.VoltageType
	}

	r.Components = make([]domain.ComponentChoice, len(s.Components))
	for i, c := range s.Components {
		r.Components[i] = domain.ComponentChoice{
			Name:     c.Name,
			Price:    optional(c.Price),
			Rating:   optional(c.Rating),
			Capacity: optional(c.Capacity),
			CRating:  optional(c.CRating),
		}
	}
	return
}

func reportToSchemaV1(v domain.Report, requestID string) (s schema.EvaluationReportV1) {
	s.ReportID = v.ID
	s.RequestID = requestID
	s.EvaluatedAt = v.EvaluatedAt.Format(time.RFC3339Nano)
	s.Product = v.Configuration.Product.Name
	s.Viable = v.Verdict.Viable
	s.Notices = v.Verdict.Notices
	s.Recommendations = v.Recommendations

	s.Violations = make([]schema.ViolationV1, len(v.Verdict.Violations))
	for i, vl := range v.Verdict.Violations {
		s.Violations[i] = schema.ViolationV1{Rule: vl.Rule, Message: vl.Message}
	}

	s.Components = make([]schema.ComponentSummaryV1, len(v.Configuration.Components))
	for i, c := range v.Configuration.Components {
		s.Components[i] = schema.ComponentSummaryV1{
			Name:     c.Name,
			Category: string(c.Category),
			Price:    c.Price.String(),
			Summary:  c.Describe(),
		}
	}

	m := v.Metrics
	s.Metrics = schema.MetricsV1{
		TotalCost:               m.TotalCost.String(),
		TotalWeight:             m.TotalWeight,
		TotalSolarPower:         m.TotalSolarPower,
		TotalControllerCapacity: m.TotalControllerCapacity,
		TotalBatteryCapacity:    m.TotalBatteryCapacity,
		MaxSystemPower:          m.MaxSystemPower,
		TotalAppliancePower:     m.TotalAppliancePower,
		ControllerUtilization:   m.ControllerUtilization,
		EstimatedRuntimeHours:   m.EstimatedRuntimeHours,
	}

	s.Adjustments = make([]schema.AdjustmentV1, len(v.Adjustments))
	for i, a := range v.Adjustments {
		s.Adjustments[i] = schema.AdjustmentV1{
			Target:  a.Target,
			Field:   a.Field,
			Kind:    string(a.Kind),
			Message: a.Message,
		}
	}
	return
}

func rejectionToSchemaV1(
	requestID, reportID, product string, at time.Time, err error,
) schema.EvaluationReportV1 {
	msg := err.Error()
	return schema.EvaluationReportV1{
		ReportID:    reportID,
		RequestID:   requestID,
		EvaluatedAt: at.UTC().Format(time.RFC3339Nano),
		Error:       &msg,
		Product:     product,
	}
}
