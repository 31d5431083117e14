package kafka_test

import (
	"context"
	"testing"

	"github.com/niksmo/solarcomp/internal/core/catalog"
	"github.com/niksmo/solarcomp/internal/core/service"
	"github.com/niksmo/solarcomp/pkg/schema"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	requestsTopic = "evaluation-requests"
	reportsTopic  = "evaluation-reports"
)

type mockSchemaIdentifier struct {
	mock.Mock
}

func (m *mockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, schemaText string,
) (int, error) {
	args := m.Called(ctx, subject, schemaText)
	return args.Int(0), args.Error(1)
}

type mockProducerClient struct {
	mock.Mock
}

func (m *mockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *mockProducerClient) Close() {
	m.Called()
}

func newSerdes(t *testing.T) (request, report schema.Serde) {
	t.Helper()

	si := new(mockSchemaIdentifier)
	si.On("DetermineID", mock.Anything, mock.Anything, schema.ConfigurationRequestSchemaTextV1).
		Return(1, nil)
	si.On("DetermineID", mock.Anything, mock.Anything, schema.EvaluationReportSchemaTextV1).
		Return(2, nil)

	request, err := schema.NewSerdeConfigurationRequestV1(
		t.Context(),
		schema.SubjectOpt(requestsTopic+"-value"),
		schema.SchemaIdentifierOpt(si),
	)
	require.NoError(t, err)

	report, err = schema.NewSerdeEvaluationReportV1(
		t.Context(),
		schema.SubjectOpt(reportsTopic+"-value"),
		schema.SchemaIdentifierOpt(si),
	)
	require.NoError(t, err)
	return request, report
}

func newService(t *testing.T, opts ...service.Opt) service.Service {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return service.New(c, nil, opts...)
}

func ptr[T any](v T) *T {
	return &v
}
