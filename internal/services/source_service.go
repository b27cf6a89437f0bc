package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-sales-tracker/internal/normalizer"
)

type sourceServiceImpl struct {
	logger   zerolog.Logger
	client   *resty.Client
	location string
	fallback func() []normalizer.Record
}

// NewSourceService reads tasks from location, which is either an http(s)
// URL or a file path. fallback supplies records whenever the source is
// missing or malformed.
func NewSourceService(
	logger zerolog.Logger,
	location string,
	timeout time.Duration,
	retryCount int,
	fallback func() []normalizer.Record,
) SourceService {
	return &sourceServiceImpl{
		logger:   logger,
		client:   newHTTPClient(timeout, retryCount),
		location: location,
		fallback: fallback,
	}
}

func newHTTPClient(timeout time.Duration, retryCount int) *resty.Client {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(retryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	client.AddRetryCondition(retryCondition)
	return client
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= http.StatusInternalServerError ||
		code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout
}

func (s *sourceServiceImpl) Fetch(ctx context.Context) ([]normalizer.Record, error) {
	payload, err := s.read(ctx)
	if err != nil {
		if !errors.Is(err, ErrSourceNotFound) && !errors.Is(err, ErrUnexpectedStatus) {
			s.logger.Error().
				Err(err).
				Str("location", s.location).
				Msg("failed to read task source")
			return nil, err
		}

		s.logger.Warn().
			Err(err).
			Str("location", s.location).
			Msg("task source unavailable, using generated tasks")
		return s.fallback(), nil
	}

	records, err := normalizer.ParseRecords(payload)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("location", s.location).
			Int("size", len(payload)).
			Msg("unusable task payload, using generated tasks")
		return s.fallback(), nil
	}

	s.logger.Info().
		Int("count", len(records)).
		Str("location", s.location).
		Msg("fetched task records")
	return records, nil
}

func (s *sourceServiceImpl) read(ctx context.Context) ([]byte, error) {
	if s.location == "" {
		return nil, ErrSourceNotFound
	}

	path := s.location
	u, err := url.Parse(s.location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return s.readHTTP(ctx)
		case "file":
			path = u.Path
		}
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return payload, nil
}

func (s *sourceServiceImpl) readHTTP(ctx context.Context) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.location)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.location, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}
	s.logger.Debug().
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("fetched task source")
	return resp.Body(), nil
}
