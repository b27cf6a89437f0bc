package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-sales-tracker/internal/derive"
	"github.com/adanyl0v/go-sales-tracker/internal/metrics"
	"github.com/adanyl0v/go-sales-tracker/internal/models"
	"github.com/adanyl0v/go-sales-tracker/internal/normalizer"
)

const snapshotCacheSize = 8

type snapshot struct {
	derived []models.DerivedTask
	metrics models.Metrics
}

type dashboardServiceImpl struct {
	logger     zerolog.Logger
	tasks      TaskService
	source     SourceService
	aggregator *metrics.Aggregator
	snapshots  *lru.Cache[uint64, snapshot]

	loadStarted atomic.Bool

	mu      sync.Mutex
	loading bool
	loadErr *string
}

func NewDashboardService(
	logger zerolog.Logger,
	taskService TaskService,
	sourceService SourceService,
	aggregator *metrics.Aggregator,
) (DashboardService, error) {
	snapshots, err := lru.New[uint64, snapshot](snapshotCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}

	return &dashboardServiceImpl{
		logger:     logger,
		tasks:      taskService,
		source:     sourceService,
		aggregator: aggregator,
		snapshots:  snapshots,
		loading:    true,
	}, nil
}

func (s *dashboardServiceImpl) Load(ctx context.Context) {
	if !s.loadStarted.CompareAndSwap(false, true) {
		s.logger.Debug().Msg("tasks already loaded")
		return
	}
	defer s.setLoading(false)

	records, err := s.source.Fetch(ctx)
	if err != nil {
		msg := err.Error()
		s.mu.Lock()
		s.loadErr = &msg
		s.mu.Unlock()

		s.logger.Error().
			Err(err).
			Msg("failed to load tasks")
		return
	}

	tasks := normalizer.Normalize(records)
	s.tasks.Seed(tasks)

	s.logger.Info().
		Int("records", len(records)).
		Int("tasks", len(tasks)).
		Msg("loaded tasks")
}

func (s *dashboardServiceImpl) State() DashboardState {
	view := s.tasks.View()
	snap := s.snapshot(view)

	s.mu.Lock()
	loading := s.loading
	var loadErr *string
	if s.loadErr != nil {
		msg := *s.loadErr
		loadErr = &msg
	}
	s.mu.Unlock()

	return DashboardState{
		Tasks:       view.Tasks,
		Loading:     loading,
		Error:       loadErr,
		Derived:     slices.Clone(snap.derived),
		Metrics:     snap.metrics,
		LastDeleted: view.LastDeleted,
	}
}

func (s *dashboardServiceImpl) Derived() []models.DerivedTask {
	return slices.Clone(s.snapshot(s.tasks.View()).derived)
}

func (s *dashboardServiceImpl) Metrics() models.Metrics {
	return s.snapshot(s.tasks.View()).metrics
}

func (s *dashboardServiceImpl) AddTask(task models.Task) models.Task {
	return s.tasks.AddTask(task)
}

func (s *dashboardServiceImpl) UpdateTask(id string, patch models.TaskPatch) (models.Task, bool) {
	return s.tasks.UpdateTask(id, patch)
}

func (s *dashboardServiceImpl) DeleteTask(id string) (models.Task, bool) {
	return s.tasks.DeleteTask(id)
}

func (s *dashboardServiceImpl) UndoDelete() (models.Task, bool) {
	return s.tasks.UndoDelete()
}

func (s *dashboardServiceImpl) ClearLastDeleted() {
	s.tasks.ClearLastDeleted()
}

// snapshot recomputes derived views at most once per revision.
func (s *dashboardServiceImpl) snapshot(view TaskView) snapshot {
	if snap, ok := s.snapshots.Get(view.Revision); ok {
		return snap
	}

	snap := snapshot{
		derived: derive.DeriveSorted(view.Tasks),
		metrics: s.aggregator.Compute(view.Tasks),
	}
	s.snapshots.Add(view.Revision, snap)

	s.logger.Debug().
		Uint64("revision", view.Revision).
		Int("count", len(view.Tasks)).
		Msg("recomputed dashboard snapshot")
	return snap
}

func (s *dashboardServiceImpl) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = loading
}
