package derive

import (
	"math"
	"sort"

	"github.com/adanyl0v/go-sales-tracker/internal/models"
)

// statusRank orders status groups for display. Unknown statuses go last.
var statusRank = map[models.Status]int{
	models.StatusInProgress: 0,
	models.StatusTodo:       1,
	models.StatusDone:       2,
}

// ROI returns revenue per hour of a single task, or 0 when it is undefined.
func ROI(task models.Task) float64 {
	if !(task.TimeTaken > 0) {
		return 0
	}
	roi := task.Revenue / task.TimeTaken
	if math.IsNaN(roi) || math.IsInf(roi, 0) {
		return 0
	}
	return roi
}

func Derive(tasks []models.Task) []models.DerivedTask {
	derived := make([]models.DerivedTask, len(tasks))
	for i, task := range tasks {
		derived[i] = models.DerivedTask{
			Task: task.Clone(),
			ROI:  ROI(task),
		}
	}
	return derived
}

// Sort orders tasks by status group, then ROI and revenue descending.
// Tasks with equal keys keep their relative order.
func Sort(derived []models.DerivedTask) {
	sort.SliceStable(derived, func(i, j int) bool {
		a, b := derived[i], derived[j]
		if ra, rb := rank(a.Status), rank(b.Status); ra != rb {
			return ra < rb
		}
		if a.ROI != b.ROI {
			return a.ROI > b.ROI
		}
		return a.Revenue > b.Revenue
	})
}

func DeriveSorted(tasks []models.Task) []models.DerivedTask {
	derived := Derive(tasks)
	Sort(derived)
	return derived
}

func rank(status models.Status) int {
	if r, ok := statusRank[status]; ok {
		return r
	}
	return len(statusRank)
}
