package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

func TestMain(m *testing.M) {
	logger_i.Init()
	os.Exit(m.Run())
}

func cachePath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "llm_cache.json")
}

func TestCache_PutGetRoundtrip(t *testing.T) {
	c := New(cachePath(t))

	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit on empty cache")
	}

	if err := c.Put("k", "v"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get = %q, %v; want v, true", got, ok)
	}
}

func TestCache_SurvivesRestart(t *testing.T) {
	path := cachePath(t)

	c := New(path)
	_ = c.Put(AnswerKey("How many leave days?", commonModels.English), "20 days")

	reloaded := New(path)
	got, ok := reloaded.Get(AnswerKey("How many leave days?", commonModels.English))
	if !ok || got != "20 days" {
		t.Errorf("entry did not survive reload: %q, %v", got, ok)
	}
}

func TestCache_WriteThroughEachPut(t *testing.T) {
	path := cachePath(t)
	c := New(path)

	_ = c.Put("a", "1")
	_ = c.Put("b", "2")

	// The file on disk always holds the full map.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cache file unreadable: %v", err)
	}
	var onDisk map[string]string
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("cache file is not a JSON object: %v", err)
	}
	if len(onDisk) != 2 || onDisk["a"] != "1" || onDisk["b"] != "2" {
		t.Errorf("on-disk map = %v", onDisk)
	}
}

func TestCache_KeyIsolationAcrossLanguages(t *testing.T) {
	c := New(cachePath(t))

	_ = c.Put(AnswerKey("X", commonModels.English), "english answer")

	if _, ok := c.Get(AnswerKey("X", commonModels.Hindi)); ok {
		t.Error("English entry produced a Hindi hit")
	}
	if _, ok := c.Get(SummaryKey(commonModels.English)); ok {
		t.Error("answer entry produced a summary hit")
	}
}

func TestCache_KeyComposition(t *testing.T) {
	if got := AnswerKey("query", commonModels.Hindi); got != "query_Hindi" {
		t.Errorf("AnswerKey = %q", got)
	}
	if got := SummaryKey(commonModels.Telugu); got != "summary_Telugu" {
		t.Errorf("SummaryKey = %q", got)
	}
}

func TestCache_Clear(t *testing.T) {
	path := cachePath(t)
	c := New(path)
	_ = c.Put("k", "v")

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cache file survived Clear")
	}
}

func TestCache_CorruptFileStartsEmpty(t *testing.T) {
	path := cachePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(path)
	if c.Len() != 0 {
		t.Errorf("corrupt file should start empty, got %d entries", c.Len())
	}
}
