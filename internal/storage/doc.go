// Package storage provides persistence for the single rolling snapshot of raw
// provider data.
//
// Two backends implement SnapshotStore: FileStore keeps the snapshot as a JSON
// file named after the cache key in a data directory (default
// ~/.local/share/unisport/), PgStore keeps it as one row of a Postgres table.
// Writes overwrite unconditionally; the last writer wins.
package storage
