package storage

import (
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"github.com/nikbrunner/shelf/internal/model"
)

// DocumentKey is the key the whole document is stored under.
const DocumentKey = "bookmarkManager"

// KVStorage implements Storage on a flat diskv key-value directory holding
// the document as a single value.
type KVStorage struct {
	d    *diskv.Diskv
	base string
}

// NewKVStorage creates a KVStorage rooted at basePath.
func NewKVStorage(basePath string) *KVStorage {
	return &KVStorage{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			TempDir:      filepath.Join(basePath, ".tmp"),
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		base: basePath,
	}
}

// Path returns the base directory of the store.
func (s *KVStorage) Path() string {
	return s.base
}

// Load reads the document value. Returns an empty store if the key is unset.
func (s *KVStorage) Load() (*model.Store, error) {
	if !s.d.Has(DocumentKey) {
		return model.NewStore(), nil
	}
	data, err := s.d.Read(DocumentKey)
	if err != nil {
		return nil, err
	}
	return model.Decode(data)
}

// Save overwrites the document value.
func (s *KVStorage) Save(store *model.Store) error {
	data, err := model.Encode(store)
	if err != nil {
		return err
	}
	return s.d.Write(DocumentKey, data)
}
