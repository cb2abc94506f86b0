package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/okian/watchkeep/internal/domain/admission"
	"github.com/okian/watchkeep/internal/domain/record"
	"github.com/okian/watchkeep/pkg/logger"
	"github.com/okian/watchkeep/pkg/metrics"
)

// Timestamp prefix of stored submission paths, UTC.
const pathTimestampLayout = "20060102150405"

// Ingest runs the full pipeline for one upload: admission control,
// structural decode, first-row validation, durable append, recompute trigger.
//
// The rate-limit slot is reserved before validation runs, so a submission
// rejected further down still counts against its source's window. Ordering is
// strict: nothing is written to the store before both admission checks pass.
//
// The returned error identifies the failing stage: *admission.RateLimitedError,
// admission.ErrBotRejected, ErrMalformedInput, *record.ValidationError or
// ErrStoreWrite.
func (s *Service) Ingest(ctx context.Context, content []byte, filename, identity, honeypot string) error {
	start := time.Now()
	defer func() {
		metrics.RecordIngestDuration(float64(time.Since(start).Milliseconds()))
	}()

	if allowed, retryAfter := s.limiter.Check(ctx, identity); !allowed {
		metrics.RecordSubmissionRejected("rate_limited")
		return &admission.RateLimitedError{RetryAfter: retryAfter}
	}
	if admission.Honeypot(honeypot) {
		metrics.RecordSubmissionRejected("honeypot")
		s.logger.Warn(ctx, "honeypot tripped", logger.String("identity", identity))
		return admission.ErrBotRejected
	}

	// Structural gate: header plus at least one data row. Only the first
	// data row is validated; later rows of the same upload pass through to
	// storage and are counted by the aggregator.
	row, err := record.DecodeFirst(content)
	if err != nil {
		metrics.RecordSubmissionRejected("malformed")
		return ErrMalformedInput
	}
	if _, err := record.Validate(row); err != nil {
		metrics.RecordSubmissionRejected("invalid_record")
		return err
	}

	// Raw bytes are stored unmodified. A same-second upload of the same
	// filename overwrites the earlier one; that matches the behavior this
	// path scheme has always had.
	ts := s.now().UTC().Format(pathTimestampLayout)
	safe := sanitizeFilename(filename)
	dest := path.Join(s.submissionsDir, ts+"_"+safe)
	message := fmt.Sprintf("Add submission %s on %s", safe, ts)
	if _, err := s.blob.Put(ctx, dest, content, message, ""); err != nil {
		metrics.RecordSubmissionRejected("store_write")
		s.logger.Error(ctx, "submission write failed",
			logger.String("path", dest),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %s", ErrStoreWrite, err)
	}

	metrics.RecordSubmissionAccepted()
	s.logger.Info(ctx, "submission stored",
		logger.String("path", dest),
		logger.Int("bytes", len(content)),
	)

	// The upload response never waits on, or fails because of, aggregation.
	s.notifyRecompute()
	return nil
}

// sanitizeFilename strips parent-directory traversal sequences from an
// uploaded filename before it becomes part of a store path.
func sanitizeFilename(name string) string {
	return strings.ReplaceAll(name, "..", "_")
}
