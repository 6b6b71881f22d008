package story

import (
	"encoding/json"
	"fmt"
	"os"
)

// Store persists the story dataset between runs. Save rewrites the whole
// collection; callers use it both for periodic checkpoints and for the
// final write at the end of a batch.
type Store interface {
	Load() (*Dataset, error)
	Save(dataset *Dataset) error
}

// FileStore reads and writes the dataset as a single JSON document.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the full dataset from disk.
func (s *FileStore) Load() (*Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stories file: %w", err)
	}

	var dataset Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse stories file: %w", err)
	}

	return &dataset, nil
}

// Save overwrites the dataset file with the in-memory state. Output is
// two-space indented with HTML escaping disabled so the Arabic titles and
// story text stay readable in the file.
func (s *FileStore) Save(dataset *Dataset) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create stories file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dataset); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode stories file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close stories file: %w", err)
	}
	return nil
}
