package models

type Grade string

const (
	GradeExcellent        Grade = "Excellent"
	GradeGood             Grade = "Good"
	GradeNeedsImprovement Grade = "Needs Improvement"
)

// Metrics is an aggregate snapshot over the whole task set.
type Metrics struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalTimeTaken    float64 `json:"totalTimeTaken"`
	TimeEfficiencyPct float64 `json:"timeEfficiencyPct"`
	RevenuePerHour    float64 `json:"revenuePerHour"`
	AverageROI        float64 `json:"averageROI"`
	PerformanceGrade  Grade   `json:"performanceGrade"`
	TotalTasks        int     `json:"totalTasks"`
	DoneTasks         int     `json:"doneTasks"`
}
