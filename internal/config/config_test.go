package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
	if cfg.LongPress() != 500*time.Millisecond {
		t.Fatalf("LongPress=%v", cfg.LongPress())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	body := "long_press_ms = 300\nmove_slop = 2\nlog_level = \"debug\"\ndebug_invariants = true\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("KANBAN_LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.LongPressMS = 300
	want.MoveSlop = 2
	want.LogLevel = "warn"
	want.DebugInvariants = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("long_press_ms = -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected validation error")
	}

	t.Setenv("KANBAN_MOVE_SLOP", "lots")
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected env parse error")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := Default()
	c.MarkdownStyle = "light"
	if err := Write(dir, c); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}
