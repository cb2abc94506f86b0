package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/watchkeep/internal/adapters/store"
	"github.com/okian/watchkeep/internal/domain/record"
	"github.com/okian/watchkeep/internal/domain/summary"
	"github.com/okian/watchkeep/pkg/logger"
	"github.com/okian/watchkeep/pkg/metrics"
)

// Suffix of files that contribute to the aggregate.
const dataFileSuffix = ".csv"

// Recompute rebuilds the aggregate snapshot from the entire submission
// history and publishes it to the snapshot path.
//
// The rebuild is best-effort over whatever is currently readable: a file that
// fails to fetch or decode is logged and skipped, never fatal. The publish is
// a read-then-conditional-write keyed on the stored version tag; on a
// conflict the whole recompute-and-publish cycle is retried, and after the
// retry budget is spent ErrSnapshotConflict is returned. The conditional
// write is what keeps a slower concurrent recompute from clobbering a fresher
// snapshot.
func (s *Service) Recompute(ctx context.Context) (summary.Snapshot, error) {
	start := time.Now()
	metrics.RecordAggregationRun()
	defer func() {
		metrics.RecordAggregationDuration(float64(time.Since(start).Milliseconds()))
	}()

	for attempt := 0; ; attempt++ {
		snap, conflict, err := s.recomputeOnce(ctx)
		if err != nil {
			metrics.RecordAggregationFailure()
			return summary.Snapshot{}, err
		}
		if !conflict {
			metrics.UpdateSnapshotTotals(snap.TotalSubmissions, s.now().Unix())
			return snap, nil
		}
		metrics.RecordAggregationConflict()
		if attempt >= s.publishRetries {
			metrics.RecordAggregationFailure()
			return summary.Snapshot{}, ErrSnapshotConflict
		}
		s.logger.Warn(ctx, "snapshot publish conflict; recomputing",
			logger.Int("attempt", attempt+1),
		)
	}
}

// recomputeOnce runs one full list-fetch-build-publish cycle. A version
// conflict on publish is reported via the conflict flag, not as an error.
func (s *Service) recomputeOnce(ctx context.Context) (summary.Snapshot, bool, error) {
	entries, err := s.blob.List(ctx, s.submissionsDir)
	if err != nil {
		return summary.Snapshot{}, false, fmt.Errorf("list %s: %w", s.submissionsDir, err)
	}

	var mu sync.Mutex
	var rows []record.Row

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name, dataFileSuffix) || entry.Name == s.sampleFile {
			continue
		}
		entry := entry
		g.Go(func() error {
			f, err := s.blob.Get(gctx, entry.Path)
			if err != nil {
				metrics.RecordAggregationSkippedFile()
				s.logger.Warn(gctx, "skipping unreadable submission",
					logger.String("path", entry.Path),
					logger.Error(err),
				)
				return nil
			}
			decoded, err := record.DecodeAll(f.Content)
			if err != nil {
				metrics.RecordAggregationSkippedFile()
				s.logger.Warn(gctx, "skipping undecodable submission",
					logger.String("path", entry.Path),
					logger.Error(err),
				)
				return nil
			}
			mu.Lock()
			rows = append(rows, decoded...)
			mu.Unlock()
			return nil
		})
	}
	// Fetch goroutines swallow their own failures; Wait only propagates
	// context cancellation.
	if err := g.Wait(); err != nil {
		return summary.Snapshot{}, false, err
	}

	snap := summary.Build(rows, s.now())
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return summary.Snapshot{}, false, fmt.Errorf("encode snapshot: %w", err)
	}

	expectedSHA := ""
	switch cur, err := s.blob.Get(ctx, s.snapshotPath); {
	case err == nil:
		expectedSHA = cur.SHA
	case errors.Is(err, store.ErrNotFound):
		// First publish creates the file.
	default:
		return summary.Snapshot{}, false, fmt.Errorf("read snapshot version: %w", err)
	}

	message := fmt.Sprintf("Update aggregate snapshot (%d submissions)", snap.TotalSubmissions)
	if _, err := s.blob.Put(ctx, s.snapshotPath, payload, message, expectedSHA); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return summary.Snapshot{}, true, nil
		}
		return summary.Snapshot{}, false, fmt.Errorf("publish snapshot: %w", err)
	}
	return snap, false, nil
}

// Summary returns the currently published snapshot, or an empty one if none
// has been published yet.
func (s *Service) Summary(ctx context.Context) (summary.Snapshot, error) {
	f, err := s.blob.Get(ctx, s.snapshotPath)
	if errors.Is(err, store.ErrNotFound) {
		return summary.Snapshot{
			ByShipType: map[string]int{},
			ByRegion:   map[string]int{},
		}, nil
	}
	if err != nil {
		return summary.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap summary.Snapshot
	if err := json.Unmarshal(f.Content, &snap); err != nil {
		return summary.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
