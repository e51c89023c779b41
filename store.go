package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/withObsrvr/deposit-sync/pipeline"
)

// Store persists deposit records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a connection pool and verifies connectivity.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pgConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	log.Info().Str("database", pgConfig.ConnConfig.Database).Msg("Connected to PostgreSQL")

	return &Store{pool: pool}, nil
}

// InitSchema creates the deposits table and its indexes if absent.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createDepositsSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// UpsertBatch applies a deduplicated batch keyed on the identity key:
// insert-if-absent, overwrite-if-present. The batch is sent as a single
// pgx batch round trip.
func (s *Store) UpsertBatch(ctx context.Context, records []*pipeline.Record) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertDepositSQL,
			r.ID, r.Brand, r.DisplayID, r.Actor, r.Amount,
			r.PostedAtRaw, r.PostedAtISO, r.Status, r.RawPayload, r.UpdatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert record: %w", err)
		}
	}
	return nil
}

// SweepStale marks a brand's pending records that were not refreshed in the
// current cycle as cleared. updated_at is bumped only by an upsert, so any
// pending record with updated_at < before necessarily vanished from the
// source. Soft transition only, never a delete.
func (s *Store) SweepStale(ctx context.Context, brand, pending, cleared string, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, sweepDepositsSQL, cleared, brand, pending, before)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep %s: %w", brand, err)
	}
	return tag.RowsAffected(), nil
}

// Ping checks database connectivity for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
