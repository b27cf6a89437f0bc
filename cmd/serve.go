package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-sales-tracker/internal/app"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API and prometheus metrics",
		Run: func(*cobra.Command, []string) {
			dash := app.MustInitDashboard()

			// the API reports loading until this finishes
			go dash.Load(context.Background())

			app.MustListenAndServeHTTP(dash)
		},
	}
}
