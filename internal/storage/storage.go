package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/unisport/internal/source"
)

// CacheKey names the persisted snapshot
const CacheKey = "unisport-cache"

// ErrNotFound is returned when no snapshot has been stored
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the persisted raw provider data with its fetch time
type Snapshot struct {
	Courses   []source.RawCourse   `json:"courses"`
	Locations []source.RawLocation `json:"locations"`
	Timestamp int64                `json:"timestamp"` // epoch milliseconds
}

// Dataset returns the raw collections held by the snapshot
func (s *Snapshot) Dataset() *source.Dataset {
	return &source.Dataset{Courses: s.Courses, Locations: s.Locations}
}

// SnapshotStore persists a single snapshot
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
	Clear(ctx context.Context) error
}

// FileStore handles persistence of the snapshot as a JSON file
type FileStore struct {
	dataDir string
}

// NewFileStore creates a FileStore, creating dataDir if needed
func NewFileStore(dataDir string) (*FileStore, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileStore{
		dataDir: dataDir,
	}, nil
}

// Path returns the path of the snapshot file
func (s *FileStore) Path() string {
	return filepath.Join(s.dataDir, CacheKey+".json")
}

// Load reads the snapshot from disk.
// Returns ErrNotFound if there is no snapshot file.
func (s *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	return decodeSnapshot(data)
}

// Save writes the snapshot to disk, replacing any previous one
func (s *FileStore) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// Write to a temp file first so readers never see a partial snapshot
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// Clear removes the snapshot file. Clearing a missing snapshot is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}

// decodeSnapshot parses a stored snapshot
func decodeSnapshot(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Courses == nil || snapshot.Locations == nil || snapshot.Timestamp == 0 {
		return nil, fmt.Errorf("parsing snapshot: incomplete snapshot")
	}
	return &snapshot, nil
}
