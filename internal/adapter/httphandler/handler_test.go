package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/solarcomp/internal/adapter/httphandler"
	"github.com/niksmo/solarcomp/internal/core/catalog"
	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/niksmo/solarcomp/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, req domain.Request) (domain.Report, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Report), args.Error(1)
}

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	s := service.New(c, nil)

	mux := http.NewServeMux()
	httphandler.RegisterEvaluations(mux, s)
	httphandler.RegisterCatalog(mux, s)
	return mux
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/evaluations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPostEvaluation(t *testing.T) {
	mux := newMux(t)

	t.Run("Viable", func(t *testing.T) {
		rec := post(mux, `{"product": {"name": "Rice Mill"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var report httphandler.EvaluationReport
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
		assert.NotEmpty(t, report.ID)
		assert.True(t, report.Viable)
		assert.Empty(t, report.Violations)
		assert.Equal(t, "800", report.Metrics.TotalCost.String())
		assert.Equal(t, "Rice Mill: $800 (230V AC, 1500W, 0kg)", report.Product.Summary)
	})

	t.Run("Violations", func(t *testing.T) {
		body := `{
			"product": {"name": "Rice Mill"},
			"components": [
				{"name": "CBA75001 - Battery 750Wh"},
				{"name": "CSC04001 - Controller Pod", "rating": [12, 24, 48]}
			]
		}`
		rec := post(mux, body)
		require.Equal(t, http.StatusOK, rec.Code)

		var report httphandler.EvaluationReport
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
		assert.False(t, report.Viable)
		require.NotEmpty(t, report.Violations)
		assert.Equal(t, "ac-requires-inverter", report.Violations[0].Rule)
		require.Len(t, report.Components, 2)
		assert.Equal(t, []int{12, 24, 48}, report.Components[1].Voltages)
		assert.Empty(t, report.Recommendations)
	})

	t.Run("Adjustments", func(t *testing.T) {
		rec := post(mux, `{"product": {"name": "Rice Mill", "voltage_rating": 24}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var report httphandler.EvaluationReport
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
		require.Len(t, report.Adjustments, 1)
		assert.Equal(t, "invalid_override", report.Adjustments[0].Kind)
		assert.Equal(t, 230, report.Product.VoltageRating)
	})

	t.Run("UnknownEntry", func(t *testing.T) {
		rec := post(mux, `{"product": {"name": "Rice Mill"}, "components": [{"name": "Dyson sphere"}]}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Dyson sphere")
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		rec := post(mux, `{"product": `)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownField", func(t *testing.T) {
		rec := post(mux, `{"product": {"name": "Rice Mill"}, "discount": 10}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MissingProduct", func(t *testing.T) {
		rec := post(mux, `{"components": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("WrongMethod", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/evaluations", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestPostEvaluationInternalError(t *testing.T) {
	s := new(mockSubmitter)
	s.On("Submit", mock.Anything, mock.Anything).
		Return(domain.Report{}, errors.New("boom")).Once()

	mux := http.NewServeMux()
	httphandler.RegisterEvaluations(mux, s)

	rec := post(mux, `{"product": {"name": "Rice Mill", "power_watts": "900"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	s.AssertExpectations(t)

	req := s.Calls[0].Arguments.Get(1).(domain.Request)
	assert.Equal(t, "900", req.Product.PowerWatts)
}

func TestGetCatalog(t *testing.T) {
	mux := newMux(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cat httphandler.Catalog
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cat))
	require.Len(t, cat.Products, 2)
	assert.Equal(t, []int{110, 120, 220, 230, 240}, cat.Products[0].VoltageRatings)
	require.Len(t, cat.Categories, 9)
	assert.Equal(t, "Accessories", cat.Categories[0].Category)

	var found bool
	for _, c := range cat.Categories {
		for _, comp := range c.Components {
			if comp.Name == "CBA20001 - Battery 5kWh" {
				found = true
				assert.True(t, comp.IncludesController)
				assert.Equal(t, 5000.0, comp.Capacity)
			}
		}
	}
	assert.True(t, found)
}

func TestAllowJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := httphandler.AllowJSON(next)

	tests := []struct {
		contentType string
		body        string
		want        int
	}{
		{"application/json", "{}", http.StatusNoContent},
		{"application/json; charset=utf-8", "{}", http.StatusNoContent},
		{"text/plain", "{}", http.StatusUnsupportedMediaType},
		{"", "{}", http.StatusUnsupportedMediaType},
		{"text/plain", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%d", tt.contentType, len(tt.body)), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
