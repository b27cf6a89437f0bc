package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("%w: unknown env %q", ErrInvalidConfig, c.Env)
	}
	if c.Fallback.Count < 0 {
		return fmt.Errorf("%w: negative fallback count %d", ErrInvalidConfig, c.Fallback.Count)
	}
	if c.Source.RetryCount < 0 {
		return fmt.Errorf("%w: negative retry count %d", ErrInvalidConfig, c.Source.RetryCount)
	}
	if c.Grade.GoodThreshold > c.Grade.ExcellentThreshold {
		return fmt.Errorf("%w: good threshold %v above excellent threshold %v",
			ErrInvalidConfig, c.Grade.GoodThreshold, c.Grade.ExcellentThreshold)
	}
	return nil
}
