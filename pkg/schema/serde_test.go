package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/niksmo/solarcomp/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func ptr[T any](v T) *T {
	return &v
}

func TestSchemaTexts(t *testing.T) {
	for _, text := range []string{
		schema.ConfigurationRequestSchemaTextV1,
		schema.EvaluationReportSchemaTextV1,
	} {
		_, err := avro.Parse(text)
		assert.NoError(t, err)
	}
}

func TestSerdeConfigurationRequestV1(t *testing.T) {
	const subject = "evaluation-requests-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeConfigurationRequestV1(t.Context())
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeConfigurationRequestV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeConfigurationRequestV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.Error(t, err)
	})

	t.Run("IdentifierFailed", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On("DetermineID", t.Context(), subject, schema.ConfigurationRequestSchemaTextV1).
			Return(0, errors.New("registry is down"))

		_, err := schema.NewSerdeConfigurationRequestV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		assert.ErrorContains(t, err, "registry is down")
		si.AssertExpectations(t)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On("DetermineID", t.Context(), subject, schema.ConfigurationRequestSchemaTextV1).
			Return(7, nil)

		serde, err := schema.NewSerdeConfigurationRequestV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.NoError(t, err)

		in := schema.ConfigurationRequestV1{
			RequestID: "req-1",
			Product: schema.ProductChoiceV1{
				Name:       "Custom Product",
				PowerWatts: ptr("1750"),
			},
			Components: []schema.ComponentChoiceV1{
				{Name: "CBA20001 - Battery 5kWh", Capacity: ptr("2000"), CRating: ptr("1")},
				{Name: "CSC04001 - Controller Pod", Rating: ptr("12, 24, 48")},
			},
		}

		data, err := serde.Encode(in)
		require.NoError(t, err)
		// magic byte followed by the big-endian schema id
		assert.Equal(t, []byte{0, 0, 0, 0, 7}, data[:5])

		var out schema.ConfigurationRequestV1
		require.NoError(t, serde.Decode(data, &out))
		assert.Equal(t, in, out)
	})
}

func TestSerdeEvaluationReportV1(t *testing.T) {
	const subject = "evaluation-reports-value"

	si := new(MockSchemaIdentifier)
	si.On("DetermineID", t.Context(), subject, schema.EvaluationReportSchemaTextV1).
		Return(3, nil)

	serde, err := schema.NewSerdeEvaluationReportV1(
		t.Context(),
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(si),
	)
	require.NoError(t, err)

	in := schema.EvaluationReportV1{
		ReportID:    "rep-1",
		RequestID:   "req-1",
		EvaluatedAt: "2024-05-01T10:00:00Z",
		Product:     "Rice Mill",
		Violations: []schema.ViolationV1{
			{Rule: "battery-needs-controller", Message: "Battery requires a Solar Controller for regulation"},
		},
		Notices: []string{},
		Components: []schema.ComponentSummaryV1{
			{Name: "CBA75001 - Battery 750Wh", Category: "Batteries", Price: "390", Summary: "x"},
		},
		Metrics: schema.MetricsV1{
			TotalCost:             "1190",
			TotalWeight:           9,
			TotalBatteryCapacity:  750,
			EstimatedRuntimeHours: ptr(0.5),
		},
		Recommendations: []string{},
		Adjustments:     []schema.AdjustmentV1{},
	}

	data, err := serde.Encode(in)
	require.NoError(t, err)

	var out schema.EvaluationReportV1
	require.NoError(t, serde.Decode(data, &out))
	assert.Equal(t, in.ReportID, out.ReportID)
	assert.Nil(t, out.Error)
	assert.Equal(t, in.Violations, out.Violations)
	assert.Equal(t, in.Components, out.Components)
	assert.Equal(t, in.Metrics, out.Metrics)

	t.Run("RejectedRequest", func(t *testing.T) {
		rejected := schema.EvaluationReportV1{
			ReportID:  "rep-2",
			RequestID: "req-2",
			Error:     ptr(`unknown catalog entry: "Flux capacitor"`),
		}
		data, err := serde.Encode(rejected)
		require.NoError(t, err)

		var out schema.EvaluationReportV1
		require.NoError(t, serde.Decode(data, &out))
		require.NotNil(t, out.Error)
		assert.Equal(t, *rejected.Error, *out.Error)
		assert.Empty(t, out.Violations)
	})
}
