package insight

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

type cacheEntry struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Cache is a JSON file of generated insights keyed by input hash. Entries
// older than the TTL are ignored and dropped on the next write.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu sync.Mutex
}

func NewCache(path string, ttl time.Duration) *Cache {
	return &Cache{path: path, ttl: ttl, now: time.Now}
}

// Key hashes the model name and summary.
func Key(model string, s Summary) (string, error) {
	h, err := hashstructure.Hash(struct {
		Model   string
		Summary Summary
	}{model, s}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("failed to hash summary: %w", err)
	}
	return strconv.FormatUint(h, 16), nil
}

// Get returns a fresh entry for key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return "", false
	}
	e, ok := entries[key]
	if !ok || c.expired(e) {
		return "", false
	}
	return e.Text, true
}

// Put stores text under key and prunes expired entries.
func (c *Cache) Put(key, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		entries = make(map[string]cacheEntry)
	}
	for k, e := range entries {
		if c.expired(e) {
			delete(entries, k)
		}
	}
	entries[key] = cacheEntry{Text: text, CreatedAt: c.now().UTC()}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return os.Rename(tmp, c.path)
}

func (c *Cache) expired(e cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.CreatedAt) > c.ttl
}

func (c *Cache) read() (map[string]cacheEntry, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]cacheEntry), nil
		}
		return nil, err
	}
	entries := make(map[string]cacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt insight cache: %w", err)
	}
	return entries, nil
}
