package normalizer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-sales-tracker/internal/models"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func normalize(records ...Record) []models.Task {
	return Normalize(records,
		WithNow(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	)
}

func TestParseRecords(t *testing.T) {
	t.Run("Should decode an array of objects", func(t *testing.T) {
		records, err := ParseRecords([]byte(`[{"title":"A","revenue":100},{"title":"B"}]`))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "A", records[0]["title"])
		assert.Equal(t, float64(100), records[0]["revenue"])
	})

	t.Run("Should accept an object wrapping a tasks array", func(t *testing.T) {
		records, err := ParseRecords([]byte(`{"tasks":[{"title":"A"}]}`))
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("Should turn non-object elements into empty records", func(t *testing.T) {
		records, err := ParseRecords([]byte(`[42, "x", {"title":"A"}]`))
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Empty(t, records[0])
		assert.Empty(t, records[1])
	})

	t.Run("Should reject invalid JSON", func(t *testing.T) {
		_, err := ParseRecords([]byte(`[{"title":`))
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("Should reject a payload that is not an array", func(t *testing.T) {
		_, err := ParseRecords([]byte(`{"title":"A"}`))
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("Should reject an empty array", func(t *testing.T) {
		_, err := ParseRecords([]byte(`[]`))
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("Should default revenue to zero when missing or not numeric", func(t *testing.T) {
		tasks := normalize(
			Record{"title": "missing"},
			Record{"title": "text", "revenue": "lots"},
			Record{"title": "bool", "revenue": true},
			Record{"title": "null", "revenue": nil},
		)
		require.Len(t, tasks, 4)
		for _, task := range tasks {
			assert.Zero(t, task.Revenue, task.Title)
		}
	})

	t.Run("Should coerce numeric strings", func(t *testing.T) {
		tasks := normalize(Record{"title": "A", "revenue": " 1250.50 ", "timeTaken": "2.5"})
		require.Len(t, tasks, 1)
		assert.Equal(t, 1250.5, tasks[0].Revenue)
		assert.Equal(t, 2.5, tasks[0].TimeTaken)
	})

	t.Run("Should coerce non-positive or missing time taken to one", func(t *testing.T) {
		tasks := normalize(
			Record{"title": "zero", "timeTaken": float64(0)},
			Record{"title": "negative", "timeTaken": float64(-3)},
			Record{"title": "missing"},
			Record{"title": "garbage", "timeTaken": "soon"},
			Record{"title": "kept", "timeTaken": 0.5},
		)
		require.Len(t, tasks, 5)
		for _, task := range tasks[:4] {
			assert.Equal(t, float64(1), task.TimeTaken, task.Title)
		}
		assert.Equal(t, 0.5, tasks[4].TimeTaken)
	})

	t.Run("Should trim titles and replace blank ones with the placeholder", func(t *testing.T) {
		tasks := normalize(
			Record{"title": "  Call Acme  "},
			Record{"title": "   "},
			Record{"title": 12},
			Record{},
		)
		require.Len(t, tasks, 4)
		assert.Equal(t, "Call Acme", tasks[0].Title)
		for _, task := range tasks[1:] {
			assert.Equal(t, models.DefaultTitle, task.Title)
		}
	})

	t.Run("Should default priority and status", func(t *testing.T) {
		tasks := normalize(Record{"title": "A"}, Record{"title": "B", "priority": "High", "status": "In Progress"})
		require.Len(t, tasks, 2)
		assert.Equal(t, models.PriorityLow, tasks[0].Priority)
		assert.Equal(t, models.StatusTodo, tasks[0].Status)
		assert.Equal(t, models.PriorityHigh, tasks[1].Priority)
		assert.Equal(t, models.StatusInProgress, tasks[1].Status)
	})

	t.Run("Should assign ids only when none is supplied", func(t *testing.T) {
		tasks := normalize(Record{"title": "A"}, Record{"title": "B", "id": "b-1"}, Record{"title": "C", "id": float64(7)})
		require.Len(t, tasks, 3)
		assert.Equal(t, "gen-1", tasks[0].ID)
		assert.Equal(t, "b-1", tasks[1].ID)
		assert.Equal(t, "7", tasks[2].ID)
	})

	t.Run("Should keep only the first record of a duplicated id", func(t *testing.T) {
		tasks := normalize(
			Record{"id": "dup", "title": "first"},
			Record{"id": "other", "title": "other"},
			Record{"id": "dup", "title": "second"},
		)
		require.Len(t, tasks, 2)
		assert.Equal(t, "first", tasks[0].Title)
		assert.Equal(t, "other", tasks[1].Title)
	})

	t.Run("Should synthesize creation times one day apart by index", func(t *testing.T) {
		tasks := normalize(Record{"title": "A"}, Record{"title": "B"})
		require.Len(t, tasks, 2)
		assert.Equal(t, fixedNow.Add(-24*time.Hour), tasks[0].CreatedAt)
		assert.Equal(t, fixedNow.Add(-48*time.Hour), tasks[1].CreatedAt)
	})

	t.Run("Should keep supplied timestamps", func(t *testing.T) {
		tasks := normalize(Record{
			"title":       "A",
			"status":      "Done",
			"createdAt":   "2026-01-02T03:04:05Z",
			"completedAt": float64(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC).UnixMilli()),
		})
		require.Len(t, tasks, 1)
		assert.True(t, tasks[0].CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
		require.NotNil(t, tasks[0].CompletedAt)
		assert.True(t, tasks[0].CompletedAt.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("Should read timestamps without a zone as UTC", func(t *testing.T) {
		tasks := normalize(Record{
			"title":       "A",
			"status":      "Done",
			"createdAt":   "2024-01-01T10:00:00",
			"completedAt": "2024-01-02T11:30:00.250",
		})
		require.Len(t, tasks, 1)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), tasks[0].CreatedAt)
		require.NotNil(t, tasks[0].CompletedAt)
		assert.Equal(t, time.Date(2024, 1, 2, 11, 30, 0, 250_000_000, time.UTC), *tasks[0].CompletedAt)
	})

	t.Run("Should derive completion one day after creation for done tasks", func(t *testing.T) {
		tasks := normalize(Record{"title": "A", "status": "Done"}, Record{"title": "B", "status": "Todo"})
		require.Len(t, tasks, 2)
		require.NotNil(t, tasks[0].CompletedAt)
		assert.Equal(t, tasks[0].CreatedAt.Add(24*time.Hour), *tasks[0].CompletedAt)
		assert.Nil(t, tasks[1].CompletedAt)
	})

	t.Run("Should return an empty slice for no records", func(t *testing.T) {
		assert.Empty(t, normalize())
	})
}
