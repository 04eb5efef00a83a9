package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

// fakeDB records statements and serves a single stored payload
type fakeDB struct {
	queries []string
	args    [][]any
	payload []byte
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.queries = append(db.queries, sql)
	db.args = append(db.args, args)
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		db.payload = args[1].([]byte)
	case strings.HasPrefix(sql, "DELETE"):
		db.payload = nil
	}
	return pgconn.NewCommandTag(""), nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.queries = append(db.queries, sql)
	db.args = append(db.args, args)
	if db.payload == nil {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{payload: db.payload}
}

func TestPgStore_Queries(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{}
	store := NewPgStore(db)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "SELECT payload FROM cache_snapshots WHERE key = $1", db.queries[0])
	assert.Equal(t, []any{CacheKey}, db.args[0])

	snapshot := testSnapshot()
	require.NoError(t, store.Save(ctx, snapshot))
	assert.Contains(t, db.queries[1], "INSERT INTO cache_snapshots (key,payload,updated_at) VALUES ($1,$2,now())")
	assert.Contains(t, db.queries[1], "ON CONFLICT (key) DO UPDATE")

	var stored Snapshot
	require.NoError(t, json.Unmarshal(db.payload, &stored))
	assert.Equal(t, snapshot.Timestamp, stored.Timestamp)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Locations, got.Locations)

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, "DELETE FROM cache_snapshots WHERE key = $1", db.queries[len(db.queries)-1])
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPgStore_CorruptPayload(t *testing.T) {
	store := NewPgStore(&fakeDB{payload: []byte(`{"courses": 5}`)})

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestPgStore_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	store := NewPgStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.Clear(ctx))

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	want := testSnapshot()
	require.NoError(t, store.Save(ctx, want))
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Timestamp, got.Timestamp)
	assert.Len(t, got.Courses, 1)

	require.NoError(t, store.Clear(ctx))
}
