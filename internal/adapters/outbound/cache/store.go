package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openkraft/inspections/internal/domain"
	"github.com/openkraft/inspections/internal/fsutil"
)

// Store is a file-based implementation of domain.CacheStore.
type Store struct{}

// New creates a new file-based cache store.
func New() *Store {
	return &Store{}
}

// Load reads the cache of one task. Returns (nil, nil) if no cache exists.
func (s *Store) Load(projectPath, task string) (*domain.RunCache, error) {
	data, err := os.ReadFile(cachePath(projectPath, task))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no cache is not an error
		}
		return nil, err
	}

	var c domain.RunCache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes a task cache to disk, creating directories as needed.
func (s *Store) Save(projectPath string, c *domain.RunCache) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(cachePath(projectPath, c.Task), data, 0644)
}

// Invalidate removes the cache file of one task.
func (s *Store) Invalidate(projectPath, task string) error {
	if err := os.Remove(cachePath(projectPath, task)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func cacheDir(projectPath string) string {
	return filepath.Join(projectPath, ".inspections", "cache")
}

func cachePath(projectPath, task string) string {
	return filepath.Join(cacheDir(projectPath), task+".json")
}
