package repository

import (
	"time"

	"github.com/okian/postboard/pkg/logger"
)

// Option applies a configuration option to Open.
type Option func(*openOptions)

type openOptions struct {
	logger        logger.Logger
	slowThreshold time.Duration
	maxOpenConns  int
}

// WithLogger routes GORM's own logging through l.
func WithLogger(l logger.Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSlowQueryThreshold sets the duration above which queries are logged as slow.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(o *openOptions) {
		if d > 0 {
			o.slowThreshold = d
		}
	}
}

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}
