package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	HTTP     HTTPConfig
	Source   SourceConfig
	Fallback FallbackConfig
	Grade    GradeConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// SourceConfig points at the initial task data. Location is either an
// http(s) URL or a file path.
type SourceConfig struct {
	Location   string        `env:"SOURCE_LOCATION" env-default:"data/tasks.json"`
	Timeout    time.Duration `env:"SOURCE_TIMEOUT" env-default:"10s"`
	RetryCount int           `env:"SOURCE_RETRY_COUNT" env-default:"2"`
}

type FallbackConfig struct {
	Count int `env:"FALLBACK_COUNT" env-default:"50"`
	// Zero picks a time based seed.
	Seed uint64 `env:"FALLBACK_SEED" env-default:"0"`
}

type GradeConfig struct {
	ExcellentThreshold float64 `env:"GRADE_EXCELLENT_THRESHOLD" env-default:"500"`
	GoodThreshold      float64 `env:"GRADE_GOOD_THRESHOLD" env-default:"200"`
}
