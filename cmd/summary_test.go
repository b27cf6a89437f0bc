package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-sales-tracker/internal/metrics"
	"github.com/adanyl0v/go-sales-tracker/internal/normalizer"
	"github.com/adanyl0v/go-sales-tracker/internal/services"
)

type stubSource struct {
	records []normalizer.Record
}

func (s stubSource) Fetch(context.Context) ([]normalizer.Record, error) {
	return s.records, nil
}

func loadedState(t *testing.T) services.DashboardState {
	t.Helper()
	dash, err := services.NewDashboardService(
		zerolog.Nop(),
		services.NewTaskService(zerolog.Nop()),
		stubSource{records: []normalizer.Record{
			{"id": "a", "title": "Renewal Acme", "revenue": 100, "timeTaken": 2, "status": "Done"},
			{"id": "b", "title": "Demo Globex", "revenue": 50, "timeTaken": 5, "status": "Todo"},
		}},
		metrics.NewAggregator(metrics.DefaultThresholds()),
	)
	require.NoError(t, err)
	dash.Load(t.Context())
	return dash.State()
}

func TestWriteSummary(t *testing.T) {
	state := loadedState(t)

	t.Run("Should print metrics and the top tasks", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSummary(&buf, state, 1))

		out := buf.String()
		assert.Contains(t, out, "Revenue per hour")
		assert.Contains(t, out, "14.3")
		assert.Contains(t, out, "Needs Improvement")
		assert.Contains(t, out, "Demo Globex")
		assert.NotContains(t, out, "Renewal Acme")
	})

	t.Run("Should skip the task table when top is zero", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSummary(&buf, state, 0))

		assert.NotContains(t, buf.String(), "Demo Globex")
	})

	t.Run("Should cap top at the number of tasks", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSummary(&buf, state, 100))

		assert.Contains(t, buf.String(), "Renewal Acme")
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("Should encode the dashboard state", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeJSON(&buf, loadedState(t)))

		var decoded services.DashboardState
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Len(t, decoded.Tasks, 2)
		assert.Equal(t, float64(30), decoded.Metrics.AverageROI)
	})
}
