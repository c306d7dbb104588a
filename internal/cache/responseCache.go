package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

// ResponseCache is a durable (query, language) → response map. The whole
// file is loaded at construction and rewritten on every Put, via a temp
// file and rename so a crash never corrupts prior entries. Entries never
// expire; only Clear removes them.
type ResponseCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	logger  *logger_i.Logger
}

// AnswerKey is the exact composition cache keys use for answers. Both the
// HTTP and MCP surfaces go through this so hits carry across sessions.
func AnswerKey(query string, lang commonModels.Language) string {
	return query + "_" + lang.String()
}

// SummaryKey is the fixed composition for summaries.
func SummaryKey(lang commonModels.Language) string {
	return "summary_" + lang.String()
}

// New loads the cache file at path. A missing file is an empty cache; an
// unreadable one is logged and treated as empty rather than failing start.
func New(path string) *ResponseCache {
	c := &ResponseCache{
		path:    path,
		entries: make(map[string]string),
		logger:  logger_i.NewLogger("ResponseCache"),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c
	}
	if err != nil {
		c.logger.Error("Could not read cache file, starting empty", "path", path, "error", err)
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.logger.Error("Cache file is not valid JSON, starting empty", "path", path, "error", err)
		c.entries = make(map[string]string)
	}
	c.logger.Info("Response cache loaded", "entries", len(c.entries))
	return c
}

func (c *ResponseCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.entries[key]
	return val, ok
}

// Put stores the value and flushes the whole map to disk (write-through).
func (c *ResponseCache) Put(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return c.flush()
}

func (c *ResponseCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing cache file: %w", err)
	}
	return nil
}

func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// flush writes the full snapshot atomically. Callers hold the lock.
func (c *ResponseCache) flush() error {
	data, err := json.MarshalIndent(c.entries, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".cache-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
