// Package jsonfile persists week results as a single JSON array on disk.
//
// The store rewrites the whole file on every append and takes no locks, so it
// must not be shared by concurrent writers.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/omarshaarawi/skinsbot/internal/models"
)

const backupTimeLayout = "20060102_150405"

type Store struct {
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the results file has been written yet.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Append adds a result to the end of the file, keeping every earlier record
// even when one exists for the same week.
func (s *Store) Append(ctx context.Context, result models.WeekResult) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Op: OpAppend, Path: s.path, Err: err}
	}

	records, err := s.read()
	if err != nil {
		return &StorageError{Op: OpAppend, Path: s.path, Err: err}
	}
	records = append(records, models.NewRecord(result))

	if err := s.write(s.path, records); err != nil {
		return &StorageError{Op: OpAppend, Path: s.path, Err: err}
	}
	return nil
}

// LoadAll returns every stored record in file order. A missing file yields no
// records.
func (s *Store) LoadAll(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: OpLoad, Path: s.path, Err: err}
	}
	records, err := s.read()
	if err != nil {
		return nil, &StorageError{Op: OpLoad, Path: s.path, Err: err}
	}
	return records, nil
}

// Deduplicate keeps only the most recently processed record per
// (week, season) and rewrites the file sorted by season then week. The
// original file is copied to a timestamped backup next to it first.
func (s *Store) Deduplicate(ctx context.Context) (kept []models.Record, removed int, backupPath string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, "", &StorageError{Op: OpDeduplicate, Path: s.path, Err: err}
	}

	records, err := s.read()
	if err != nil {
		return nil, 0, "", &StorageError{Op: OpDeduplicate, Path: s.path, Err: err}
	}
	if len(records) == 0 {
		return nil, 0, "", nil
	}

	backupPath = s.backupPath()
	if err := s.write(backupPath, records); err != nil {
		return nil, 0, "", &StorageError{Op: OpBackup, Path: backupPath, Err: err}
	}

	kept = Latest(records)
	if err := s.write(s.path, kept); err != nil {
		return nil, 0, backupPath, &StorageError{Op: OpDeduplicate, Path: s.path, Err: err}
	}
	return kept, len(records) - len(kept), backupPath, nil
}

// Latest picks the most recently processed record for each (week, season),
// sorted by season then week. Ties on processing time keep the later entry
// in file order.
func Latest(records []models.Record) []models.Record {
	latest := make(map[models.WeekKey]models.Record)
	for _, r := range records {
		key := r.Key()
		if cur, ok := latest[key]; ok && r.ProcessedAt().Before(cur.ProcessedAt()) {
			continue
		}
		latest[key] = r
	}

	out := make([]models.Record, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	SortByWeek(out)
	return out
}

func SortByWeek(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Key(), records[j].Key()
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		return a.Week < b.Week
	})
}

func (s *Store) backupPath() string {
	ext := filepath.Ext(s.path)
	base := strings.TrimSuffix(s.path, ext)
	return fmt.Sprintf("%s_backup_%s%s", base, s.now().Format(backupTimeLayout), ext)
}

func (s *Store) read() ([]models.Record, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return []models.Record{}, nil
	}

	var records []models.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return records, nil
}

func (s *Store) write(path string, records []models.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(body, '\n'), 0o644)
}
