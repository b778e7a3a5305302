// Package jsonfile persists ledger snapshots as a single JSON file. Writes
// go through a temp file and rename so a crash mid-write never corrupts
// the snapshot.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

// Store reads and writes a balances snapshot at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the given snapshot path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot. A missing file is not an error and returns an
// empty map, treating every account as zero.
func (s *Store) Load(ctx context.Context) (map[domain.AccountID]int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[domain.AccountID]int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var balances map[domain.AccountID]int
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", s.path, err)
	}
	if balances == nil {
		balances = make(map[domain.AccountID]int)
	}

	return balances, nil
}

// Save writes the full snapshot atomically.
func (s *Store) Save(ctx context.Context, balances map[domain.AccountID]int) error {
	data, err := json.MarshalIndent(balances, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}

	return nil
}
