package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmorval/linkscope/pkg/logging"
)

// PostgresStore reads normalized event records from the case database.
// The upstream ingestion pipeline owns the schema; this store only reads.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPostgresStore connects a store to an existing pgx pool
func NewPostgresStore(pool *pgxpool.Pool, logger logging.Logger) *PostgresStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PostgresStore{pool: pool, logger: logger.With(logging.Component("events"))}
}

// Connect opens a pgx pool against the given DSN and wraps it in a store
func Connect(ctx context.Context, dsn string, logger logging.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return NewPostgresStore(pool, logger), nil
}

// Close releases the underlying pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Events returns matching events in timestamp order.
// Filtering is pushed down to SQL so oversized datasets never cross the wire.
func (s *PostgresStore) Events(ctx context.Context, filter Filter) ([]Event, error) {
	query := `SELECT id, dataset, source, target, event_type, occurred_at, duration_seconds
		FROM events WHERE 1=1`
	args := make([]any, 0, 4)

	if filter.Dataset != "" {
		args = append(args, filter.Dataset)
		query += fmt.Sprintf(" AND dataset = $%d", len(args))
	}
	if filter.Type != "" && filter.Type != TypeAll {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND event_type = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}
	query += " ORDER BY occurred_at"

	timer := logging.StartTimer(s.logger, "events loaded", logging.Dataset(filter.Dataset))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		var (
			e       Event
			evtType string
			seconds float64
		)
		if err := rows.Scan(&e.ID, &e.Dataset, &e.Source, &e.Target, &evtType, &e.Timestamp, &seconds); err != nil {
			timer.EndError(err)
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = EventType(evtType)
		e.Duration = time.Duration(seconds * float64(time.Second))
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("read events: %w", err)
	}

	timer.End()
	return out, nil
}

// Datasets lists distinct dataset scopes
func (s *PostgresStore) Datasets(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT dataset FROM events ORDER BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
