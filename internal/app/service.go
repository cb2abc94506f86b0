// Package service provides the core submission pipeline that implements the
// dependencies required by the HTTP API: admission control, validation,
// durable append and aggregate recomputation.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/watchkeep/internal/adapters/store"
	"github.com/okian/watchkeep/internal/domain/admission"
	"github.com/okian/watchkeep/pkg/logger"
)

// Default layout of the content store.
const (
	defaultSubmissionsDir = "submissions"
	defaultSnapshotPath   = "data/data.json"
	defaultSampleFile     = "sample.csv"
)

// Service implements the API dependencies for the submission system.
type Service struct {
	mu sync.RWMutex

	// Core components
	blob    store.BlobStore
	limiter *admission.Limiter

	// Configuration
	submissionsDir   string
	snapshotPath     string
	sampleFile       string
	publishRetries   int
	fetchConcurrency int

	// State
	started bool
	stopCh  chan struct{}
	trigger chan struct{}
	wg      sync.WaitGroup

	now func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBlobStore sets the versioned content store backing submissions and the
// aggregate snapshot. Required.
func WithBlobStore(b store.BlobStore) Option {
	return func(s *Service) {
		if b != nil {
			s.blob = b
		}
	}
}

// WithLimiter replaces the default 24h in-memory rate limiter.
func WithLimiter(l *admission.Limiter) Option {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithSubmissionsDir sets the store prefix raw submissions are written under.
func WithSubmissionsDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.submissionsDir = dir
		}
	}
}

// WithSnapshotPath sets the fixed path the aggregate snapshot is published to.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.snapshotPath = path
		}
	}
}

// WithSampleFile sets the file name excluded from aggregation.
func WithSampleFile(name string) Option {
	return func(s *Service) {
		s.sampleFile = name
	}
}

// WithPublishRetries sets how many times a conflicting snapshot publish is
// retried with a fresh recompute.
func WithPublishRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.publishRetries = n
		}
	}
}

// WithFetchConcurrency bounds parallel submission fetches during recompute.
func WithFetchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		submissionsDir:   defaultSubmissionsDir,
		snapshotPath:     defaultSnapshotPath,
		sampleFile:       defaultSampleFile,
		publishRetries:   1,
		fetchConcurrency: 4,
		stopCh:           make(chan struct{}),
		trigger:          make(chan struct{}, 1),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service and launches the background recompute loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.blob == nil {
		return ErrNoStore
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.limiter == nil {
		s.limiter = admission.NewLimiter()
	}

	s.wg.Add(1)
	go s.recomputeLoop(ctx)

	s.started = true
	s.logger.Info(ctx, "submission service started",
		logger.String("submissionsDir", s.submissionsDir),
		logger.String("snapshotPath", s.snapshotPath),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.wg.Wait()

	s.started = false
	s.logger.Info(context.Background(), "submission service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":          s.started,
		"submissionsDir":   s.submissionsDir,
		"snapshotPath":     s.snapshotPath,
		"publishRetries":   s.publishRetries,
		"fetchConcurrency": s.fetchConcurrency,
	}
}
