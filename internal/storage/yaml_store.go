package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// StateFileName is the YAML file name used by the YAML store.
const StateFileName = "state.yaml"

// YAMLStore keeps every key in a single YAML document on disk. Blobs are
// written as strings so the file stays readable.
type YAMLStore struct {
	mu   sync.Mutex
	path string
}

// NewYAMLStore creates a store backed by the file at path. The file is
// created on the first Set.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Path returns the backing file.
func (s *YAMLStore) Path() string {
	return s.path
}

// Get returns the blobs stored under keys. A missing file holds no keys.
func (s *YAMLStore) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readLocked()
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if value, ok := entries[key]; ok {
			result[key] = []byte(value)
		}
	}
	return result, nil
}

// Set merges record into the file and replaces it atomically.
func (s *YAMLStore) Set(ctx context.Context, record map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readLocked()
	if err != nil {
		return err
	}
	for key, value := range record {
		entries[key] = string(value)
	}

	serialized, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal state yaml: %w", err)
	}
	return writeFileAtomic(s.path, serialized)
}

func (s *YAMLStore) readLocked() (map[string]string, error) {
	entries := make(map[string]string)

	rawData, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := yaml.Unmarshal(rawData, &entries); err != nil {
		return nil, fmt.Errorf("parse state yaml: %w", err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return entries, nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
