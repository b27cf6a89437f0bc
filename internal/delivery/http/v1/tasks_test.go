package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-sales-tracker/internal/metrics"
	"github.com/adanyl0v/go-sales-tracker/internal/models"
	"github.com/adanyl0v/go-sales-tracker/internal/normalizer"
	"github.com/adanyl0v/go-sales-tracker/internal/services"
)

type stubSource struct {
	records []normalizer.Record
	err     error
}

func (s stubSource) Fetch(context.Context) ([]normalizer.Record, error) {
	return s.records, s.err
}

func newTestRouter(t *testing.T, records ...normalizer.Record) *gin.Engine {
	t.Helper()
	return newTestRouterWithSource(t, stubSource{records: records})
}

func newTestRouterWithSource(t *testing.T, source services.SourceService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dash, err := services.NewDashboardService(
		zerolog.Nop(),
		services.NewTaskService(zerolog.Nop()),
		source,
		metrics.NewAggregator(metrics.DefaultThresholds()),
	)
	require.NoError(t, err)
	dash.Load(t.Context())

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), New(zerolog.Nop(), dash))
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHandleCreateTask(t *testing.T) {
	t.Run("Should create a task", func(t *testing.T) {
		router := newTestRouter(t)

		w := do(router, http.MethodPost, "/api/v1/tasks", `{"title":"Call Acme","revenue":300,"timeTaken":0,"status":"Done"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		task := decode[models.Task](t, w)
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, "Call Acme", task.Title)
		assert.Equal(t, float64(1), task.TimeTaken)
		assert.Equal(t, models.PriorityLow, task.Priority)
		assert.NotNil(t, task.CompletedAt)
	})

	t.Run("Should reject a request without title", func(t *testing.T) {
		router := newTestRouter(t)

		w := do(router, http.MethodPost, "/api/v1/tasks", `{"revenue":300}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), errInvalidRequestBody.Error())
	})

	t.Run("Should reject malformed json", func(t *testing.T) {
		router := newTestRouter(t)

		w := do(router, http.MethodPost, "/api/v1/tasks", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleUpdateTask(t *testing.T) {
	t.Run("Should patch a task and stamp completion", func(t *testing.T) {
		router := newTestRouter(t, normalizer.Record{"id": "a", "title": "A", "revenue": 10, "timeTaken": 2})

		w := do(router, http.MethodPatch, "/api/v1/tasks/a", `{"status":"Done","notes":"signed"}`)
		require.Equal(t, http.StatusOK, w.Code)

		task := decode[models.Task](t, w)
		assert.Equal(t, models.StatusDone, task.Status)
		assert.Equal(t, "signed", task.Notes)
		assert.NotNil(t, task.CompletedAt)
		assert.Equal(t, float64(2), task.TimeTaken)
	})

	t.Run("Should answer no content for an unknown id", func(t *testing.T) {
		router := newTestRouter(t)

		w := do(router, http.MethodPatch, "/api/v1/tasks/missing", `{"title":"B"}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHandleDeleteAndUndo(t *testing.T) {
	t.Run("Should delete, expose the tombstone and restore it", func(t *testing.T) {
		router := newTestRouter(t, normalizer.Record{"id": "a", "title": "A"})

		w := do(router, http.MethodDelete, "/api/v1/tasks/a", "")
		require.Equal(t, http.StatusNoContent, w.Code)

		state := decode[services.DashboardState](t, do(router, http.MethodGet, "/api/v1/dashboard", ""))
		assert.Empty(t, state.Tasks)
		require.NotNil(t, state.LastDeleted)
		assert.Equal(t, "a", state.LastDeleted.ID)

		w = do(router, http.MethodPost, "/api/v1/undo", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "a", decode[models.Task](t, w).ID)

		w = do(router, http.MethodPost, "/api/v1/undo", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Should accept deleting an unknown id", func(t *testing.T) {
		router := newTestRouter(t)

		w := do(router, http.MethodDelete, "/api/v1/tasks/missing", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Should clear the tombstone", func(t *testing.T) {
		router := newTestRouter(t, normalizer.Record{"id": "a", "title": "A"})
		do(router, http.MethodDelete, "/api/v1/tasks/a", "")

		w := do(router, http.MethodDelete, "/api/v1/last-deleted", "")
		require.Equal(t, http.StatusNoContent, w.Code)

		state := decode[services.DashboardState](t, do(router, http.MethodGet, "/api/v1/dashboard", ""))
		assert.Nil(t, state.LastDeleted)
	})
}

func TestHandleReads(t *testing.T) {
	router := newTestRouter(t,
		normalizer.Record{"id": "a", "title": "A", "revenue": 100, "timeTaken": 2, "status": "Done"},
		normalizer.Record{"id": "b", "title": "B", "revenue": 50, "timeTaken": 5, "status": "Todo"},
	)

	t.Run("Should list derived tasks in display order", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/tasks", "")
		require.Equal(t, http.StatusOK, w.Code)

		derived := decode[[]models.DerivedTask](t, w)
		require.Len(t, derived, 2)
		assert.Equal(t, "b", derived[0].ID)
		assert.Equal(t, float64(10), derived[0].ROI)
		assert.Equal(t, "a", derived[1].ID)
	})

	t.Run("Should return the metrics snapshot", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/metrics", "")
		require.Equal(t, http.StatusOK, w.Code)

		m := decode[models.Metrics](t, w)
		assert.Equal(t, float64(100), m.TotalRevenue)
		assert.Equal(t, float64(7), m.TotalTimeTaken)
		assert.Equal(t, float64(50), m.TimeEfficiencyPct)
		assert.Equal(t, 14.3, m.RevenuePerHour)
		assert.Equal(t, float64(30), m.AverageROI)
		assert.Equal(t, models.GradeNeedsImprovement, m.PerformanceGrade)
	})

	t.Run("Should return the whole dashboard state", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/dashboard", "")
		require.Equal(t, http.StatusOK, w.Code)

		state := decode[services.DashboardState](t, w)
		assert.False(t, state.Loading)
		assert.Nil(t, state.Error)
		assert.Len(t, state.Tasks, 2)
		assert.Len(t, state.Derived, 2)
		assert.Equal(t, 2, state.Metrics.TotalTasks)
	})

	t.Run("Should serve the dashboard after a failed load", func(t *testing.T) {
		router := newTestRouterWithSource(t, stubSource{err: errors.New("connection refused")})

		w := do(router, http.MethodGet, "/api/v1/dashboard", "")
		require.Equal(t, http.StatusOK, w.Code)

		state := decode[services.DashboardState](t, w)
		require.NotNil(t, state.Error)
		assert.Equal(t, "connection refused", *state.Error)
		assert.Empty(t, state.Tasks)
	})

	t.Run("Should echo or assign a request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", http.NoBody)
		req.Header.Set(requestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))

		w = do(router, http.MethodGet, "/api/v1/metrics", "")
		assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	})
}
