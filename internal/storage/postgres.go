package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const snapshotTable = "cache_snapshots"

// DB is the subset of *pgxpool.Pool used by PgStore
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore keeps the snapshot as a single row keyed by CacheKey
type PgStore struct {
	db  DB
	key string
}

// NewPgStore creates a PgStore on an existing pool
func NewPgStore(db DB) *PgStore {
	return &PgStore{db: db, key: CacheKey}
}

// NewPool creates a pgx pool for dsn and pings it
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the snapshot table if it does not exist
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+snapshotTable+` (
		key        TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("create snapshot table failed: %w", err)
	}
	return nil
}

func (s *PgStore) Load(ctx context.Context) (*Snapshot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("payload").
		From(snapshotTable).
		Where(squirrel.Eq{"key": s.key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load snapshot query failed: %w", err)
	}

	var payload []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load snapshot failed: %w", err)
	}

	return decodeSnapshot(payload)
}

func (s *PgStore) Save(ctx context.Context, snapshot *Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert(snapshotTable).
		Columns("key", "payload", "updated_at").
		Values(s.key, payload, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save snapshot query failed: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot failed: %w", err)
	}
	return nil
}

func (s *PgStore) Clear(ctx context.Context) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete(snapshotTable).
		Where(squirrel.Eq{"key": s.key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear snapshot query failed: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("clear snapshot failed: %w", err)
	}
	return nil
}
