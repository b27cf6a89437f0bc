package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-sales-tracker/internal/app"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "sales-tracker",
		Short:        "Track sales tasks and their revenue metrics",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			app.InitDefaultLogger()
			app.MustReadEnv()
			app.MustInitApplicationLogger()
			if logLevel != "" {
				app.SetLogLevel(logLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the log level picked from ENV")

	root.AddCommand(newServeCommand(), newSummaryCommand())
	return root
}
