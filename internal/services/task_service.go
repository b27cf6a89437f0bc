package services

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-sales-tracker/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string

	mu          sync.Mutex
	tasks       []models.Task
	lastDeleted *models.Task
	revision    uint64
}

type TaskServiceOption func(*taskServiceImpl)

func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.newID = newID
	}
}

func NewTaskService(
	logger zerolog.Logger,
	opts ...TaskServiceOption,
) TaskService {
	s := &taskServiceImpl{
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *taskServiceImpl) Seed(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.tasks
	s.tasks = make([]models.Task, 0, len(tasks)+len(existing))
	regenerated := 0
	for _, task := range tasks {
		task = task.Clone()
		id := s.seedIDLocked(task.ID, existing)
		if id != task.ID {
			regenerated++
			s.logger.Debug().
				Str("task_id", task.ID).
				Str("new_task_id", id).
				Msg("regenerated colliding task id")
		}
		task.ID = id
		if !(task.TimeTaken > 0) || math.IsInf(task.TimeTaken, 0) {
			task.TimeTaken = 1
		}
		s.tasks = append(s.tasks, task)
	}
	s.tasks = append(s.tasks, existing...)
	s.revision++

	s.logger.Info().
		Int("seeded", len(tasks)).
		Int("kept", len(existing)).
		Int("regenerated_ids", regenerated).
		Msg("seeded tasks")
}

func (s *taskServiceImpl) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]models.Task, len(s.tasks))
	for i, task := range s.tasks {
		tasks[i] = task.Clone()
	}
	return tasks
}

func (s *taskServiceImpl) View() TaskView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := TaskView{
		Tasks:    make([]models.Task, len(s.tasks)),
		Revision: s.revision,
	}
	for i, task := range s.tasks {
		view.Tasks[i] = task.Clone()
	}
	if s.lastDeleted != nil {
		task := s.lastDeleted.Clone()
		view.LastDeleted = &task
	}
	return view
}

func (s *taskServiceImpl) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.revision
}

func (s *taskServiceImpl) AddTask(task models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task = task.Clone()
	task.ID = s.uniqueIDLocked(task.ID)
	task.Title = normalizeTitle(task.Title)
	task.TimeTaken = clampTimeTaken(task.TimeTaken)
	if !isFinite(task.Revenue) {
		task.Revenue = 0
	}
	if task.Priority == "" {
		task.Priority = models.PriorityLow
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}

	now := s.now()
	task.CreatedAt = now
	task.CompletedAt = nil
	if task.Status == models.StatusDone {
		task.CompletedAt = &now
	}

	s.tasks = append(s.tasks, task)
	s.revision++

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("created task")
	return task.Clone()
}

func (s *taskServiceImpl) UpdateTask(id string, patch models.TaskPatch) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.logger.Warn().
			Str("task_id", id).
			Msg("task not found")
		return models.Task{}, false
	}

	task := &s.tasks[idx]
	wasDone := task.Status == models.StatusDone

	if patch.Title != nil {
		task.Title = normalizeTitle(*patch.Title)
	}
	if patch.Revenue != nil && isFinite(*patch.Revenue) {
		task.Revenue = *patch.Revenue
	}
	if patch.TimeTaken != nil {
		task.TimeTaken = *patch.TimeTaken
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Notes != nil {
		task.Notes = *patch.Notes
	}
	if patch.CompletedAt != nil {
		completedAt := *patch.CompletedAt
		task.CompletedAt = &completedAt
	}
	task.TimeTaken = clampTimeTaken(task.TimeTaken)

	if !wasDone && task.Status == models.StatusDone && task.CompletedAt == nil {
		now := s.now()
		task.CompletedAt = &now
		s.logger.Debug().
			Str("task_id", task.ID).
			Time("completed_at", now).
			Msg("stamped completion time")
	}
	s.revision++

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("updated task")
	return task.Clone(), true
}

func (s *taskServiceImpl) DeleteTask(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.logger.Warn().
			Str("task_id", id).
			Msg("task not found")
		return models.Task{}, false
	}

	deleted := s.tasks[idx]
	s.tasks = slices.Delete(s.tasks, idx, idx+1)
	if s.lastDeleted != nil {
		s.logger.Debug().
			Str("task_id", s.lastDeleted.ID).
			Msg("discarded previous tombstone")
	}
	s.lastDeleted = &deleted
	s.revision++

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return deleted.Clone(), true
}

func (s *taskServiceImpl) UndoDelete() (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		s.logger.Debug().Msg("nothing to undo")
		return models.Task{}, false
	}

	task := s.lastDeleted.Clone()
	s.lastDeleted = nil

	id := s.uniqueIDLocked(task.ID)
	if id != task.ID {
		s.logger.Debug().
			Str("task_id", task.ID).
			Str("new_task_id", id).
			Msg("regenerated colliding task id")
	}
	task.ID = id
	s.tasks = append(s.tasks, task)
	s.revision++

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("restored task")
	return task.Clone(), true
}

func (s *taskServiceImpl) ClearLastDeleted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastDeleted = nil
}

func (s *taskServiceImpl) LastDeleted() *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		return nil
	}
	task := s.lastDeleted.Clone()
	return &task
}

func (s *taskServiceImpl) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(task models.Task) bool {
		return task.ID == id
	})
}

// uniqueIDLocked returns id if it is free, otherwise a freshly generated one.
func (s *taskServiceImpl) uniqueIDLocked(id string) string {
	return s.freeID(id, func(candidate string) bool {
		return s.indexLocked(candidate) >= 0
	})
}

// seedIDLocked also avoids the ids of tasks that will follow the seeded ones.
func (s *taskServiceImpl) seedIDLocked(id string, existing []models.Task) string {
	return s.freeID(id, func(candidate string) bool {
		return s.indexLocked(candidate) >= 0 || slices.ContainsFunc(existing, func(task models.Task) bool {
			return task.ID == candidate
		})
	})
}

func (s *taskServiceImpl) freeID(id string, taken func(string) bool) string {
	if id != "" && !taken(id) {
		return id
	}
	for attempt := 0; ; attempt++ {
		candidate := s.newID()
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", candidate, attempt)
		}
		if candidate != "" && candidate != id && !taken(candidate) {
			return candidate
		}
	}
}

func normalizeTitle(title string) string {
	if title = strings.TrimSpace(title); title == "" {
		return models.DefaultTitle
	}
	return title
}

func clampTimeTaken(timeTaken float64) float64 {
	if !(timeTaken >= 1) || math.IsInf(timeTaken, 0) {
		return 1
	}
	return timeTaken
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
