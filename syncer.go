package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/withObsrvr/deposit-sync/pipeline"
)

// Cycle status values surfaced by the status endpoint.
const (
	statusIdle    = "idle"
	statusRunning = "running"
	statusError   = "error"
)

// RowSource fetches every brand's sheet in one batched request per cycle.
type RowSource interface {
	FetchAll(ctx context.Context, brands []string) (map[string][][]string, error)
}

// RecordStore accepts upsert-by-key batches and the conditional bulk update
// used by the sweep.
type RecordStore interface {
	UpsertBatch(ctx context.Context, records []*pipeline.Record) error
	SweepStale(ctx context.Context, brand, pending, cleared string, before time.Time) (int64, error)
}

// CycleState is the status snapshot served by the HTTP surface.
type CycleState struct {
	Status           string     `json:"status"`
	LastRun          *time.Time `json:"last_run"`
	LastError        string     `json:"last_error,omitempty"`
	RecordsProcessed int        `json:"records_processed"`
}

// Syncer drives one full sync cycle: fetch, normalize, resolve, dedup,
// upsert, sweep. Only one cycle may be in flight at a time.
type Syncer struct {
	cfg    *Config
	source RowSource
	store  RecordStore

	running atomic.Bool

	mu    sync.Mutex
	state CycleState
}

// NewSyncer creates a new Syncer instance
func NewSyncer(cfg *Config, source RowSource, store RecordStore) *Syncer {
	return &Syncer{
		cfg:    cfg,
		source: source,
		store:  store,
		state:  CycleState{Status: statusIdle},
	}
}

// State returns a snapshot copy of the current cycle state.
func (s *Syncer) State() CycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run executes one full sync cycle. The entry guard is a CompareAndSwap, so
// a cycle already in flight makes this a no-op and two concurrent callers
// cannot both enter.
func (s *Syncer) Run(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		log.Info().Msg("Sync cycle already running, skipping")
		return
	}
	defer s.running.Store(false)

	cyclesTotal.Inc()
	s.setStatus(statusRunning)

	// Captured before the fetch: any record refreshed during this cycle has
	// updated_at >= cycleStart and is excluded from the sweep.
	cycleStart := time.Now().UTC()

	grids, err := s.source.FetchAll(ctx, s.cfg.Source.Brands)
	if err != nil {
		cycleErrorsTotal.Inc()
		log.Error().Err(err).Msg("Spreadsheet fetch failed, aborting cycle")
		s.finish(statusError, 0, fmt.Sprintf("fetch: %v", err))
		return
	}

	total := 0
	lastErr := ""
	for _, brand := range s.cfg.Source.Brands {
		n, err := s.syncBrand(ctx, brand, grids, cycleStart)
		total += n
		if err != nil {
			cycleErrorsTotal.Inc()
			log.Error().Err(err).Str("brand", brand).Msg("Brand sync failed")
			lastErr = fmt.Sprintf("%s: %v", brand, err)
		}
	}

	cycleDuration.Observe(time.Since(cycleStart).Seconds())
	s.finish(statusIdle, total, lastErr)

	log.Info().
		Int("records", total).
		Dur("duration", time.Since(cycleStart)).
		Msg("Sync cycle completed")
}

// syncBrand processes one brand: normalize, resolve, dedup, upsert, sweep.
// A failure here never aborts the remaining brands. The returned count is
// the number of records upserted.
func (s *Syncer) syncBrand(ctx context.Context, brand string, grids map[string][][]string, cycleStart time.Time) (int, error) {
	grid, ok := grids[brand]
	if !ok {
		return 0, fmt.Errorf("sheet missing from batch response")
	}

	rows := pipeline.RowsFromGrid(grid)
	rowsFetchedTotal.Add(float64(len(rows)))

	records := make([]*pipeline.Record, 0, len(rows))
	for _, row := range rows {
		rec := pipeline.NormalizeRow(brand, row, time.Now().UTC())
		if rec == nil {
			rowsDiscardedTotal.Inc()
			continue
		}
		rec.ID = pipeline.ResolveIdentity(rec)
		records = append(records, rec)
	}
	records = pipeline.Deduplicate(records)

	if err := s.store.UpsertBatch(ctx, records); err != nil {
		// Sweep intentionally not run: a failed upload must not clear
		// records that may still exist at the source.
		return 0, fmt.Errorf("failed to upsert batch: %w", err)
	}
	recordsUpsertedTotal.Add(float64(len(records)))

	swept, err := s.store.SweepStale(ctx, brand, s.cfg.Sync.PendingStatus, s.cfg.Sync.ClearedStatus, cycleStart)
	if err != nil {
		return len(records), fmt.Errorf("failed to sweep stale records: %w", err)
	}
	recordsSweptTotal.Add(float64(swept))

	if swept > 0 {
		log.Info().Str("brand", brand).Int64("swept", swept).Msg("Swept stale pending records")
	}
	log.Debug().Str("brand", brand).Int("rows", len(rows)).Int("records", len(records)).Msg("Brand synced")

	return len(records), nil
}

func (s *Syncer) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = status
}

func (s *Syncer) finish(status string, total int, lastErr string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = status
	s.state.LastRun = &now
	s.state.RecordsProcessed = total
	s.state.LastError = lastErr
}
