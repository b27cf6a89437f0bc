package app

import (
	"github.com/adanyl0v/go-sales-tracker/internal/config"
	"github.com/adanyl0v/go-sales-tracker/internal/generator"
	"github.com/adanyl0v/go-sales-tracker/internal/metrics"
	"github.com/adanyl0v/go-sales-tracker/internal/normalizer"
	"github.com/adanyl0v/go-sales-tracker/internal/services"
)

func MustInitDashboard() services.DashboardService {
	cfg := config.Global()

	taskService := services.NewTaskService(componentLogger("tasks"))
	sourceService := services.NewSourceService(
		componentLogger("source"),
		cfg.Source.Location,
		cfg.Source.Timeout,
		cfg.Source.RetryCount,
		fallbackRecords(cfg.Fallback),
	)
	aggregator := metrics.NewAggregator(metrics.Thresholds{
		Excellent: cfg.Grade.ExcellentThreshold,
		Good:      cfg.Grade.GoodThreshold,
	})

	dash, err := services.NewDashboardService(
		componentLogger("dashboard"),
		taskService,
		sourceService,
		aggregator,
	)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create dashboard")
		panic(err)
	}
	globalLogger.Info().Msg("created dashboard")
	return dash
}

func fallbackRecords(cfg config.FallbackConfig) func() []normalizer.Record {
	return func() []normalizer.Record {
		var opts []generator.Option
		if cfg.Seed != 0 {
			opts = append(opts, generator.WithSeed(cfg.Seed))
		}
		return generator.Generate(cfg.Count, opts...)
	}
}
