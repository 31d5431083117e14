package main

import (
	"bytes"
	"encoding/json"
	"io"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/niksmo/solarcomp/internal/adapter/httphandler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batteryRequest = `{
	"product": {"name": "Custom Product"},
	"components": [
		{"name": "CBA20001 - Battery 5kWh"},
		{"name": "CMM75001 - Mighty Motor 750W"}
	]
}`

func TestRunText(t *testing.T) {
	t.Run("Viable", func(t *testing.T) {
		var out bytes.Buffer
		err := run(t.Context(), nil, strings.NewReader(batteryRequest), &out, io.Discard)
		require.NoError(t, err)

		text := out.String()
		assert.Contains(t, text, "Product: Custom Product: $300")
		assert.Contains(t, text, "  Batteries:\n")
		assert.Contains(t, text, "system is electrically compatible")
		assert.Contains(t, text, "Total battery capacity: 5000Wh")
		assert.Contains(t, text, "Total appliance power: 750W")
		assert.Contains(t, text, "Total system load: 750W")
		assert.Contains(t, text, "Estimated runtime: 6.7 hours")
	})

	t.Run("Violations", func(t *testing.T) {
		var out bytes.Buffer
		req := `{"product": {"name": "Rice Mill"}, "components": [{"name": "CBA75001 - Battery 750Wh"}]}`
		err := run(t.Context(), nil, strings.NewReader(req), &out, io.Discard)
		require.NoError(t, err)

		text := out.String()
		assert.Contains(t, text, "incompatible system configuration")
		assert.Contains(t, text, "[battery-needs-controller] Battery requires a Solar Controller for regulation")
		assert.NotContains(t, text, "Recommendations:")
	})

	t.Run("ProductOnly", func(t *testing.T) {
		var out bytes.Buffer
		err := run(t.Context(), nil, strings.NewReader(`{"product": {"name": "Rice Mill"}}`), &out, io.Discard)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "No components added.")
		assert.NotContains(t, out.String(), "Power system summary")
	})

	t.Run("Adjustments", func(t *testing.T) {
		var out bytes.Buffer
		req := `{"product": {"name": "Rice Mill", "power_watts": "lots"}}`
		err := run(t.Context(), nil, strings.NewReader(req), &out, io.Discard)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Adjusted input:")
	})
}

func TestRunJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(batteryRequest), 0o600))

	var out bytes.Buffer
	err := run(t.Context(), []string{"-i", path, "-o", "json"}, nil, &out, io.Discard)
	require.NoError(t, err)

	var report httphandler.EvaluationReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.Viable)
	assert.Len(t, report.Components, 2)
}

func TestRunList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(t.Context(), []string{"--list"}, nil, &out, io.Discard))
	assert.Contains(t, out.String(), "Rice Mill")
	assert.Contains(t, out.String(), "Batteries:")

	out.Reset()
	require.NoError(t, run(t.Context(), []string{"--list", "-o", "json"}, nil, &out, io.Discard))
	var cat httphandler.Catalog
	require.NoError(t, json.Unmarshal(out.Bytes(), &cat))
	assert.Len(t, cat.Categories, 9)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		usage bool
	}{
		{name: "UnknownFormat", args: []string{"-o", "yaml"}, usage: true},
		{name: "MissingProduct", input: `{"components": []}`, usage: true},
		{name: "UnknownField", input: `{"product": {"name": "Rice Mill"}, "x": 1}`},
		{name: "UnknownComponent", input: `{"product": {"name": "Rice Mill"}, "components": [{"name": "Nope"}]}`},
		{name: "MissingFile", args: []string{"-i", "/nonexistent/request.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(t.Context(), tt.args, strings.NewReader(tt.input), &out, io.Discard)
			require.Error(t, err)
			assert.Equal(t, tt.usage, errors.Is(err, errUsage))
		})
	}
}

func TestRunFlagErrorsGoToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(t.Context(), []string{"--bogus"}, nil, &out, &errOut)
	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "bogus")
	assert.Contains(t, errOut.String(), "--output")
}
