package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-sales-tracker/internal/app"
	"github.com/adanyl0v/go-sales-tracker/internal/services"
)

const defaultTop = 10

var titleStyle = lipgloss.NewStyle().Bold(true)

func newSummaryCommand() *cobra.Command {
	var (
		top    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Load the task source once and print its metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash := app.MustInitDashboard()
			dash.Load(cmd.Context())

			state := dash.State()
			if state.Error != nil {
				return fmt.Errorf("failed to load tasks: %s", *state.Error)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), state)
			}
			return writeSummary(cmd.OutOrStdout(), state, top)
		},
	}
	cmd.Flags().IntVar(&top, "top", defaultTop, "number of tasks to list, 0 lists none")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the whole dashboard state as json")
	return cmd
}

func writeJSON(w io.Writer, state services.DashboardState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func writeSummary(w io.Writer, state services.DashboardState, top int) error {
	m := state.Metrics

	metrics := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Metric", "Value").
		Row("Tasks", fmt.Sprintf("%d (%d done)", m.TotalTasks, m.DoneTasks)).
		Row("Total revenue", formatFloat(m.TotalRevenue)).
		Row("Total time taken", formatFloat(m.TotalTimeTaken)+" h").
		Row("Time efficiency", formatFloat(m.TimeEfficiencyPct)+" %").
		Row("Revenue per hour", formatFloat(m.RevenuePerHour)).
		Row("Average ROI", formatFloat(m.AverageROI)).
		Row("Grade", string(m.PerformanceGrade))

	if _, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render("Metrics"), metrics.String()); err != nil {
		return err
	}

	top = min(max(top, 0), len(state.Derived))
	if top == 0 {
		return nil
	}

	tasks := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Status", "Priority", "Revenue", "Hours", "ROI")
	for _, t := range state.Derived[:top] {
		tasks.Row(
			t.ID,
			t.Title,
			string(t.Status),
			string(t.Priority),
			formatFloat(t.Revenue),
			formatFloat(t.TimeTaken),
			formatFloat(t.ROI),
		)
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render("Tasks"), tasks.String())
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
