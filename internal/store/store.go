// Package store keeps a collection of records in a single JSON file.
//
// Every access reads or writes the whole file. Nothing is cached between
// calls, so the file on disk is always the source of truth.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ParseError reports a backing file that exists but does not hold a valid
// JSON array of records.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Store is a whole-file snapshot store for records of type T.
type Store[T any] struct {
	path string
	// mu serializes Update cycles. Load and Save do not take it.
	mu sync.Mutex
}

// New creates a store backed by path. The file is not touched until the
// first Load or Save.
func New[T any](path string) *Store[T] {
	return &Store[T]{path: path}
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Load returns every record in file order. A missing file is an empty
// collection.
func (s *Store[T]) Load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}
	if records == nil {
		// a literal "null" in the file
		records = []T{}
	}
	return records, nil
}

// Save overwrites the backing file with records. The write is not atomic.
func (s *Store[T]) Save(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(s.path), err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Update runs one load-modify-save cycle while holding the store lock, so
// two overlapping updates cannot drop each other's changes. If fn returns
// an error nothing is written.
func (s *Store[T]) Update(fn func(records []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load()
	if err != nil {
		return err
	}
	records, err = fn(records)
	if err != nil {
		return err
	}
	return s.Save(records)
}
