package normalizer

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/adanyl0v/go-sales-tracker/internal/models"
)

var (
	ErrInvalidPayload = errors.New("invalid task payload")
	ErrEmptyPayload   = errors.New("empty task payload")
)

const day = 24 * time.Hour

// Zoneless layouts are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	time.DateOnly,
}

// Record is a loosely-typed task as it arrives from a data source.
type Record map[string]any

type options struct {
	now   func() time.Time
	newID func() string
}

type Option func(*options)

func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// ParseRecords decodes a JSON array of task-like objects. A top-level object
// carrying a "tasks" array is accepted too.
func ParseRecords(payload []byte) ([]Record, error) {
	if !gjson.ValidBytes(payload) {
		return nil, ErrInvalidPayload
	}

	result := gjson.ParseBytes(payload)
	if result.IsObject() {
		result = result.Get("tasks")
	}
	if !result.IsArray() {
		return nil, ErrInvalidPayload
	}

	elems := result.Array()
	if len(elems) == 0 {
		return nil, ErrEmptyPayload
	}

	records := make([]Record, 0, len(elems))
	for _, elem := range elems {
		record := Record{}
		if fields, ok := elem.Value().(map[string]any); ok {
			record = fields
		}
		records = append(records, record)
	}
	return records, nil
}

// Normalize coerces records into well-formed tasks. Malformed fields are
// defaulted, never reported. Only the first task of every id is kept.
func Normalize(records []Record, opts ...Option) []models.Task {
	o := options{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	now := o.now()
	tasks := make([]models.Task, 0, len(records))
	for idx, record := range records {
		tasks = append(tasks, normalizeRecord(record, idx, now, o.newID))
	}
	return dedup(filter(tasks))
}

func normalizeRecord(record Record, idx int, now time.Time, newID func() string) models.Task {
	task := models.Task{
		ID:       stringID(record["id"]),
		Title:    models.DefaultTitle,
		Priority: models.PriorityLow,
		Status:   models.StatusTodo,
	}
	if task.ID == "" {
		task.ID = newID()
	}

	if title, ok := record["title"].(string); ok {
		if title = strings.TrimSpace(title); title != "" {
			task.Title = title
		}
	}

	if revenue, ok := toNumber(record["revenue"]); ok {
		task.Revenue = revenue
	}

	task.TimeTaken = 1
	if timeTaken, ok := toNumber(record["timeTaken"]); ok && timeTaken > 0 {
		task.TimeTaken = timeTaken
	}

	if priority, ok := record["priority"].(string); ok {
		if priority = strings.TrimSpace(priority); priority != "" {
			task.Priority = models.Priority(priority)
		}
	}
	if status, ok := record["status"].(string); ok {
		if status = strings.TrimSpace(status); status != "" {
			task.Status = models.Status(status)
		}
	}
	if notes, ok := record["notes"].(string); ok {
		task.Notes = notes
	}

	createdAt, ok := toTime(record["createdAt"])
	if !ok {
		createdAt = now.Add(-time.Duration(idx+1) * day)
	}
	task.CreatedAt = createdAt

	if completedAt, ok := toTime(record["completedAt"]); ok {
		task.CompletedAt = &completedAt
	} else if task.Status == models.StatusDone {
		completedAt = createdAt.Add(day)
		task.CompletedAt = &completedAt
	}

	return task
}

func filter(tasks []models.Task) []models.Task {
	kept := tasks[:0]
	for _, task := range tasks {
		if strings.TrimSpace(task.Title) == "" || !isFinite(task.Revenue) {
			continue
		}
		kept = append(kept, task)
	}
	return kept
}

func dedup(tasks []models.Task) []models.Task {
	seen := make(map[string]struct{}, len(tasks))
	kept := tasks[:0]
	for _, task := range tasks {
		if _, ok := seen[task.ID]; ok {
			continue
		}
		seen[task.ID] = struct{}{}
		kept = append(kept, task)
	}
	return kept
}

func stringID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		if isFinite(id) {
			return strconv.FormatFloat(id, 'f', -1, 64)
		}
	case json.Number:
		return id.String()
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	}
	return ""
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch value := v.(type) {
	case float64:
		n = value
	case float32:
		n = float64(value)
	case int:
		n = float64(value)
	case int64:
		n = float64(value)
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		n = d.InexactFloat64()
	default:
		return 0, false
	}
	if !isFinite(n) {
		return 0, false
	}
	return n, true
}

func toTime(v any) (time.Time, bool) {
	switch value := v.(type) {
	case string:
		value = strings.TrimSpace(value)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, true
			}
		}
	case time.Time:
		return value, !value.IsZero()
	default:
		if ms, ok := toNumber(value); ok && ms > 0 {
			return time.UnixMilli(int64(ms)), true
		}
	}
	return time.Time{}, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
