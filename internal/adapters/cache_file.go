package adapters

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"turbo-ncu/internal/ports"
	"turbo-ncu/internal/types"
)

// FileCache is a JSON-file backed version cache. Entries older than TTL
// are treated as absent and dropped by Prune.
type FileCache struct {
	Path  string
	TTL   time.Duration
	Clock func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheFile struct {
	Entries map[string]cacheEntry `json:"entries"`
}

type cacheEntry struct {
	Versions  []string `json:"versions"`
	Timestamp int64    `json:"timestamp"`
}

// OpenFileCache loads path if it exists. A missing or unreadable file
// starts an empty cache; it is never an error.
func OpenFileCache(path string, ttl time.Duration) *FileCache {
	cache := &FileCache{
		Path:    path,
		TTL:     ttl,
		Clock:   time.Now,
		entries: map[string]cacheEntry{},
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Debug().Err(err).Str("path", path).Msg("cache file unreadable, starting empty")
		}
		return cache
	}
	var decoded cacheFile
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("cache file corrupt, starting empty")
		return cache
	}
	if decoded.Entries != nil {
		cache.entries = decoded.Entries
	}
	return cache
}

func (c *FileCache) Get(name string) (types.RegistryVersionInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[name]
	if !ok || c.expired(entry) {
		return types.RegistryVersionInfo{}, false
	}
	versions := append([]string(nil), entry.Versions...)
	return types.RegistryVersionInfo{PackageName: name, Versions: versions}, true
}

func (c *FileCache) Set(name string, versions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = cacheEntry{
		Versions:  append([]string{}, versions...),
		Timestamp: c.now().Unix(),
	}
}

func (c *FileCache) Prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, name)
		}
	}
}

// Persist writes the cache through a sibling temp file and rename so a
// crash never leaves a partial file behind.
func (c *FileCache) Persist() error {
	c.mu.Lock()
	data, err := json.Marshal(cacheFile{Entries: c.entries})
	c.mu.Unlock()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode cache").
			WithCause(err)
	}
	if err := writeFileAtomic(c.Path, data); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write cache file").
			WithCause(err)
	}
	return nil
}

// Clear drops every entry and removes the backing file.
func (c *FileCache) Clear() {
	c.mu.Lock()
	c.entries = map[string]cacheEntry{}
	c.mu.Unlock()
	if err := os.Remove(c.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debug().Err(err).Str("path", c.Path).Msg("failed to remove cache file")
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *FileCache) expired(entry cacheEntry) bool {
	age := c.now().Unix() - entry.Timestamp
	if age < 0 {
		age = 0
	}
	return time.Duration(age)*time.Second > c.TTL
}

func (c *FileCache) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	if dirHandle, err := os.Open(dir); err == nil {
		_ = dirHandle.Sync()
		_ = dirHandle.Close()
	}
	return nil
}

var _ ports.CachePort = (*FileCache)(nil)
