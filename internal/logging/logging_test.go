package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_WritesJSONLinesToFile(t *testing.T) {
	dir := t.TempDir()
	l, closeFn := New(Options{Dir: dir, Level: "debug", MaxSizeMB: 1})
	l.WithField("id", "item-1").Debug("drag started")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(b))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected a JSON line; got %q (%v)", line, err)
	}
	if entry["msg"] != "drag started" || entry["id"] != "item-1" || entry["level"] != "debug" {
		t.Fatalf("entry=%v", entry)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	dir := t.TempDir()
	l, closeFn := New(Options{Dir: dir, Level: "warn"})
	l.Info("hidden")
	_ = closeFn()
	b, _ := os.ReadFile(filepath.Join(dir, FileName))
	if strings.Contains(string(b), "hidden") {
		t.Fatalf("info line written at warn level: %q", b)
	}
}

func TestParseLevel(t *testing.T) {
	if got := ParseLevel("nope"); got != logrus.InfoLevel {
		t.Fatalf("ParseLevel(nope)=%v", got)
	}
	if got := ParseLevel(" DEBUG "); got != logrus.DebugLevel {
		t.Fatalf("ParseLevel(DEBUG)=%v", got)
	}
}
