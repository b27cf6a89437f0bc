package metrics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/adanyl0v/go-sales-tracker/internal/derive"
	"github.com/adanyl0v/go-sales-tracker/internal/models"
)

const (
	DefaultExcellentThreshold = 500
	DefaultGoodThreshold      = 200
)

// Thresholds bucket the average ROI into performance grades. An average
// above Excellent is graded Excellent, one at or above Good is graded Good.
type Thresholds struct {
	Excellent float64
	Good      float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Excellent: DefaultExcellentThreshold,
		Good:      DefaultGoodThreshold,
	}
}

type Aggregator struct {
	thresholds Thresholds
}

func NewAggregator(thresholds Thresholds) *Aggregator {
	return &Aggregator{thresholds: thresholds}
}

// Empty is the snapshot reported for an empty task set.
func (a *Aggregator) Empty() models.Metrics {
	return models.Metrics{PerformanceGrade: models.GradeNeedsImprovement}
}

func (a *Aggregator) Compute(tasks []models.Task) models.Metrics {
	if len(tasks) == 0 {
		return a.Empty()
	}

	var (
		totalRevenue = decimal.Zero
		totalTime    = decimal.Zero
		roiSum       = decimal.Zero
		roiCount     int64
		done         int
	)
	for _, task := range tasks {
		if task.Status == models.StatusDone {
			done++
			if isFinite(task.Revenue) {
				totalRevenue = totalRevenue.Add(decimal.NewFromFloat(task.Revenue))
			}
		}
		if isFinite(task.TimeTaken) {
			totalTime = totalTime.Add(decimal.NewFromFloat(task.TimeTaken))
		}
		if roi := derive.ROI(task); roi >= 0 {
			roiSum = roiSum.Add(decimal.NewFromFloat(roi))
			roiCount++
		}
	}

	m := models.Metrics{
		TotalRevenue:   finite(totalRevenue.InexactFloat64()),
		TotalTimeTaken: finite(totalTime.InexactFloat64()),
		TotalTasks:     len(tasks),
		DoneTasks:      done,
	}

	m.TimeEfficiencyPct = finite(decimal.NewFromInt(int64(done * 100)).
		Div(decimal.NewFromInt(int64(len(tasks)))).
		Round(0).
		InexactFloat64())

	if !totalTime.IsZero() {
		m.RevenuePerHour = finite(totalRevenue.Div(totalTime).Round(1).InexactFloat64())
	}

	var averageROI float64
	if roiCount > 0 {
		avg := roiSum.Div(decimal.NewFromInt(roiCount))
		averageROI = finite(avg.InexactFloat64())
		m.AverageROI = finite(avg.Round(1).InexactFloat64())
	}
	m.PerformanceGrade = a.Grade(averageROI)

	return m
}

func (a *Aggregator) Grade(averageROI float64) models.Grade {
	switch {
	case averageROI > a.thresholds.Excellent:
		return models.GradeExcellent
	case averageROI >= a.thresholds.Good:
		return models.GradeGood
	default:
		return models.GradeNeedsImprovement
	}
}

func finite(f float64) float64 {
	if !isFinite(f) {
		return 0
	}
	return f
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
