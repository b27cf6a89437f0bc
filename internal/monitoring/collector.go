package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adanyl0v/go-sales-tracker/internal/models"
	"github.com/adanyl0v/go-sales-tracker/internal/services"
)

const namespace = "sales"

var (
	totalRevenueDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "total_revenue"),
		"Revenue summed over done tasks.",
		nil, nil,
	)
	totalTimeTakenDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "total_time_taken_hours"),
		"Hours summed over all tasks.",
		nil, nil,
	)
	timeEfficiencyDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "time_efficiency_percent"),
		"Share of done tasks, in percent.",
		nil, nil,
	)
	revenuePerHourDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "revenue_per_hour"),
		"Done revenue divided by total hours.",
		nil, nil,
	)
	averageROIDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "average_roi"),
		"Mean ROI over tasks with a valid ROI.",
		nil, nil,
	)
	tasksDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "tasks"),
		"Number of tasks by status.",
		[]string{"status"}, nil,
	)
	gradeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "performance_grade"),
		"Current performance grade, 1 for the active grade.",
		[]string{"grade"}, nil,
	)
	loadingDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "dashboard_loading"),
		"1 while the initial load is in progress.",
		nil, nil,
	)
)

var (
	knownStatuses = []models.Status{models.StatusTodo, models.StatusInProgress, models.StatusDone}
	knownGrades   = []models.Grade{models.GradeExcellent, models.GradeGood, models.GradeNeedsImprovement}
)

// Collector exposes the dashboard metrics snapshot as gauges, read on every scrape.
type Collector struct {
	dashboard services.DashboardService
}

func NewCollector(dashboard services.DashboardService) *Collector {
	return &Collector{dashboard: dashboard}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- totalRevenueDesc
	ch <- totalTimeTakenDesc
	ch <- timeEfficiencyDesc
	ch <- revenuePerHourDesc
	ch <- averageROIDesc
	ch <- tasksDesc
	ch <- gradeDesc
	ch <- loadingDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	state := c.dashboard.State()
	m := state.Metrics

	ch <- prometheus.MustNewConstMetric(totalRevenueDesc, prometheus.GaugeValue, m.TotalRevenue)
	ch <- prometheus.MustNewConstMetric(totalTimeTakenDesc, prometheus.GaugeValue, m.TotalTimeTaken)
	ch <- prometheus.MustNewConstMetric(timeEfficiencyDesc, prometheus.GaugeValue, m.TimeEfficiencyPct)
	ch <- prometheus.MustNewConstMetric(revenuePerHourDesc, prometheus.GaugeValue, m.RevenuePerHour)
	ch <- prometheus.MustNewConstMetric(averageROIDesc, prometheus.GaugeValue, m.AverageROI)
	ch <- prometheus.MustNewConstMetric(loadingDesc, prometheus.GaugeValue, boolToFloat(state.Loading))

	counts := make(map[models.Status]int, len(knownStatuses))
	for _, status := range knownStatuses {
		counts[status] = 0
	}
	for _, t := range state.Tasks {
		counts[t.Status]++
	}
	for status, n := range counts {
		ch <- prometheus.MustNewConstMetric(tasksDesc, prometheus.GaugeValue, float64(n), string(status))
	}

	for _, grade := range knownGrades {
		ch <- prometheus.MustNewConstMetric(gradeDesc, prometheus.GaugeValue,
			boolToFloat(grade == m.PerformanceGrade), string(grade))
	}
}

// NewHandler serves the dashboard gauges together with the Go runtime
// collectors from a private registry.
func NewHandler(dashboard services.DashboardService) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		NewCollector(dashboard),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}), nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
