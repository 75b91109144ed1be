// Package exportstore keeps rendered care plan PDFs on disk until they are
// downloaded or expire.
package exportstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an export id is unknown or has expired.
var ErrNotFound = errors.New("export not found")

const fileExt = ".pdf"

// Meta describes a stored export.
type Meta struct {
	ID        string    `json:"id"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Store writes exports into a single directory as <id>.pdf.
type Store struct {
	dir string
	now func() time.Time
}

// New creates dir if needed and returns a Store rooted there.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("export directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save copies r into a new export file. Partially written files are removed.
func (s *Store) Save(ctx context.Context, r io.Reader) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}

	id := uuid.NewString()
	tmp, err := os.CreateTemp(s.dir, "."+id+"-*")
	if err != nil {
		return Meta{}, fmt.Errorf("create export: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return Meta{}, fmt.Errorf("write export: %w", err)
	}

	if err := os.Rename(tmpName, s.path(id)); err != nil {
		os.Remove(tmpName)
		return Meta{}, fmt.Errorf("commit export: %w", err)
	}

	return Meta{ID: id, Size: n, CreatedAt: s.now().UTC()}, nil
}

// Open returns the export file for id. The caller closes it.
func (s *Store) Open(id string) (*os.File, Meta, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, Meta{}, ErrNotFound
	}
	f, err := os.Open(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, Meta{}, ErrNotFound
		}
		return nil, Meta{}, fmt.Errorf("open export: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Meta{}, fmt.Errorf("stat export: %w", err)
	}
	return f, Meta{ID: id, Size: info.Size(), CreatedAt: info.ModTime().UTC()}, nil
}

// Sweep deletes exports last modified more than olderThan ago and returns
// how many were removed.
func (s *Store) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read export dir: %w", err)
	}

	cutoff := s.now().Add(-olderThan)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}
