package server

import (
	"errors"
	"time"

	"github.com/clarete/pas"
)

// Config holds the knobs of the HTTP service
type Config struct {
	// CacheSize is how many compiled grammars are kept around
	CacheSize int

	// MatchTimeout bounds each match attempt.  Zero means no
	// timeout other than the request's own.
	MatchTimeout time.Duration

	// MaxBodyBytes caps the size of request bodies
	MaxBodyBytes int64

	// RateLimit is the sustained number of match requests per second
	// accepted, and RateBurst how many can arrive at once.  A zero
	// RateLimit disables rate limiting.
	RateLimit float64
	RateBurst int

	// ShutdownTimeout is how long in-flight requests get to finish
	// once the server is asked to stop
	ShutdownTimeout time.Duration

	// Engine is the configuration grammars are compiled and
	// matched with
	Engine *pas.Config
}

// DefaultConfig returns the configuration `pas serve` starts with
func DefaultConfig() Config {
	return Config{
		CacheSize:       128,
		MatchTimeout:    5 * time.Second,
		MaxBodyBytes:    1 << 20,
		RateBurst:       20,
		ShutdownTimeout: 10 * time.Second,
		Engine:          pas.NewConfig(),
	}
}

func (c Config) validate() error {
	var errs []error
	if c.CacheSize <= 0 {
		errs = append(errs, errors.New("cache size must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max body bytes must be positive"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit can't be negative"))
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		errs = append(errs, errors.New("rate burst must be positive when rate limiting"))
	}
	return errors.Join(errs...)
}
