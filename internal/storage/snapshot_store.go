package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// SnapshotStore persists committed token sets as versioned key/value rows.
// It implements tokens.SnapshotStore.
type SnapshotStore struct {
	db *DB
}

func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save upserts the payload under key with its schema version.
func (s *SnapshotStore) Save(key string, version int, payload []byte) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO snapshots (key, schema_version, payload, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET schema_version = excluded.schema_version, payload = excluded.payload, updated_at = excluded.updated_at`,
		key, version, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// Load returns the payload stored under key, or (nil, nil) when no row
// exists or the stored schema version differs — migration is forward-only,
// a stale snapshot is simply discarded.
func (s *SnapshotStore) Load(key string, version int) ([]byte, error) {
	var storedVersion int
	var payload string
	err := s.db.Conn().QueryRow(
		`SELECT schema_version, payload FROM snapshots WHERE key = ?`, key,
	).Scan(&storedVersion, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	if storedVersion != version {
		return nil, nil
	}
	return []byte(payload), nil
}
