package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/nikbrunner/shelf/internal/model"
)

// ErrPersistence marks a failed read or write of the persisted document.
var ErrPersistence = errors.New("persistence failure")

// ErrUnknownBackend is returned by OpenStorage for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage defines the interface for persisting the bookmark document.
type Storage interface {
	Load() (*model.Store, error)
	Save(store *model.Store) error
}

// Close releases the backend if it holds resources.
func Close(s Storage) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// JSONStorage implements Storage using a single JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the document from the JSON file.
// Returns an empty store if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(), nil
		}
		return nil, err
	}

	store, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return store, nil
}

// Save replaces the JSON file with the current document.
// The write goes through a temp file and rename, so a crash never leaves a
// truncated document behind.
func (s *JSONStorage) Save(store *model.Store) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := model.Encode(store)
	if err != nil {
		return err
	}
	return atomic.WriteFile(s.path, bytes.NewReader(data))
}

// OpenStorage opens the backend selected by the config.
// An empty backend prefers an existing SQLite database and falls back to JSON.
func OpenStorage(cfg *Config) (Storage, error) {
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendJSON:
		return NewJSONStorage(filepath.Join(dir, jsonFile)), nil
	case BackendKV:
		return NewKVStorage(filepath.Join(dir, kvDir)), nil
	case BackendSQLite:
		return NewSQLiteStorage(filepath.Join(dir, sqliteFile))
	case "":
		sqlitePath := filepath.Join(dir, sqliteFile)
		if _, err := os.Stat(sqlitePath); err == nil {
			return NewSQLiteStorage(sqlitePath)
		}
		return NewJSONStorage(filepath.Join(dir, jsonFile)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
