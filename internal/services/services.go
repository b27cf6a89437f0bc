package services

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-sales-tracker/internal/models"
	"github.com/adanyl0v/go-sales-tracker/internal/normalizer"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected source response status")
	ErrSourceNotFound   = errors.New("task source not found")
)

type TaskService interface {
	// Seed places loaded tasks ahead of any tasks added meanwhile. Seeded
	// tasks whose ids are taken get fresh ones. The tombstone is kept.
	Seed(tasks []models.Task)

	// Tasks returns a copy of the task set in insertion order.
	Tasks() []models.Task

	// View reads the task set and the tombstone at a single revision.
	View() TaskView

	// Revision is bumped on every change of the task set.
	Revision() uint64

	// AddTask stores a copy of the task. It assigns a fresh id when the
	// task has none or its id is taken, clamps TimeTaken to at least 1,
	// sets CreatedAt to now and CompletedAt to now for done tasks.
	AddTask(task models.Task) models.Task

	// UpdateTask merges the patch onto the task with the given id.
	//
	// Entering Done stamps CompletedAt unless the patch supplies one or
	// the task already has one. Leaving Done keeps CompletedAt.
	//
	// It returns false if no task has the given id.
	UpdateTask(id string, patch models.TaskPatch) (models.Task, bool)

	// DeleteTask removes the task and keeps it as the single undo
	// tombstone, discarding any previous one. A failed delete leaves the
	// tombstone untouched.
	DeleteTask(id string) (models.Task, bool)

	// UndoDelete reinserts the tombstone, regenerating its id if it is
	// taken by now. The tombstone is cleared in any case.
	UndoDelete() (models.Task, bool)

	ClearLastDeleted()
	LastDeleted() *models.Task
}

type TaskView struct {
	Tasks       []models.Task
	LastDeleted *models.Task
	Revision    uint64
}

type SourceService interface {
	// Fetch returns the raw task records of the initial data source. A
	// missing, failed or malformed source yields generated records.
	Fetch(ctx context.Context) ([]normalizer.Record, error)
}

type DashboardService interface {
	// Load populates the task set from the source. Only the first call
	// does any work.
	Load(ctx context.Context)

	State() DashboardState
	Derived() []models.DerivedTask
	Metrics() models.Metrics

	AddTask(task models.Task) models.Task
	UpdateTask(id string, patch models.TaskPatch) (models.Task, bool)
	DeleteTask(id string) (models.Task, bool)
	UndoDelete() (models.Task, bool)
	ClearLastDeleted()
}

// DashboardState is everything the presentation layer reads.
type DashboardState struct {
	Tasks       []models.Task        `json:"tasks"`
	Loading     bool                 `json:"loading"`
	Error       *string              `json:"error"`
	Derived     []models.DerivedTask `json:"derived"`
	Metrics     models.Metrics       `json:"metrics"`
	LastDeleted *models.Task         `json:"lastDeleted"`
}
