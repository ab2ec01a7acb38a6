package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type cliEnv struct {
	t   *testing.T
	dir string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	e := cliEnv{t: t, dir: t.TempDir()}
	e.mustRun("init")
	return e
}

func (e cliEnv) mustRun(args ...string) map[string]any {
	e.t.Helper()
	full := append([]string{"--dir", e.dir}, args...)
	stdout, stderr, err := runCLI(e.t, full)
	if err != nil {
		e.t.Fatalf("command failed: kanban %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", full, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		e.t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		e.t.Fatalf("expected data key; got %v", env)
	}
	return env
}

func (e cliEnv) id(env map[string]any) string {
	e.t.Helper()
	id, _ := env["data"].(map[string]any)["id"].(string)
	if id == "" {
		e.t.Fatalf("expected an id in %v", env["data"])
	}
	return id
}

func titles(env map[string]any) []string {
	out := []string{}
	for _, x := range env["data"].([]any) {
		out = append(out, x.(map[string]any)["title"].(string))
	}
	return out
}

func TestCLI_InitWritesConfig(t *testing.T) {
	e := newCLIEnv(t)
	if _, err := os.Stat(filepath.Join(e.dir, "config.toml")); err != nil {
		t.Fatalf("expected config.toml: %v", err)
	}
	if _, err := os.Stat(filepath.Join(e.dir, "board.sqlite")); err != nil {
		t.Fatalf("expected board.sqlite: %v", err)
	}
	env := e.mustRun("init")
	if wrote, _ := env["data"].(map[string]any)["wroteConfig"].(bool); wrote {
		t.Fatalf("second init must not overwrite config.toml")
	}
}

func TestCLI_MoveItems(t *testing.T) {
	e := newCLIEnv(t)
	boardID := e.id(e.mustRun("boards", "create", "--title", "Work"))
	todo := e.id(e.mustRun("lists", "create", "--board", boardID, "--title", "Todo"))
	done := e.id(e.mustRun("lists", "create", "--board", boardID, "--title", "Done"))

	ids := map[string]string{}
	for _, title := range []string{"A", "B", "C", "D"} {
		ids[title] = e.id(e.mustRun("items", "create", "--list", todo, "--title", title))
	}

	moved := e.mustRun("items", "move", ids["B"], "--to", "3")
	if got := moved["meta"].(map[string]any)["outcome"]; got != "moved" {
		t.Fatalf("outcome=%v", got)
	}
	if diff := cmp.Diff([]string{"A", "C", "D", "B"}, titles(e.mustRun("items", "list", "--list", todo))); diff != "" {
		t.Fatalf("todo (-want +got):\n%s", diff)
	}

	noop := e.mustRun("items", "move", ids["B"], "--to", "3")
	if got := noop["meta"].(map[string]any)["outcome"]; got != "noop" {
		t.Fatalf("outcome=%v; want noop", got)
	}

	e.mustRun("items", "move", ids["A"], "--list", done, "--to", "0")
	if diff := cmp.Diff([]string{"C", "D", "B"}, titles(e.mustRun("items", "list", "--list", todo))); diff != "" {
		t.Fatalf("todo (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A"}, titles(e.mustRun("items", "list", "--list", done))); diff != "" {
		t.Fatalf("done (-want +got):\n%s", diff)
	}

	e.mustRun("lists", "move", done, "--to", "0")
	if diff := cmp.Diff([]string{"Done", "Todo"}, titles(e.mustRun("lists", "list", "--board", boardID))); diff != "" {
		t.Fatalf("lists (-want +got):\n%s", diff)
	}

	rep := e.mustRun("doctor", "--fail")
	if n := rep["meta"].(map[string]any)["issues"].(float64); n != 0 {
		t.Fatalf("expected clean doctor report; got %v", rep["data"])
	}
}

func TestCLI_ArchiveRestoreAndExportImport(t *testing.T) {
	e := newCLIEnv(t)
	boardID := e.id(e.mustRun("boards", "create", "--title", "Home"))
	list := e.id(e.mustRun("lists", "create", "--board", boardID, "--title", "Chores"))
	first := e.id(e.mustRun("items", "create", "--list", list, "--title", "Dishes"))
	e.mustRun("items", "create", "--list", list, "--title", "Laundry")
	tag := e.id(e.mustRun("tags", "create", "--board", boardID, "--title", "weekly"))
	e.mustRun("tags", "attach", first, tag)

	e.mustRun("items", "archive", first)
	if diff := cmp.Diff([]string{"Laundry"}, titles(e.mustRun("items", "list", "--list", list))); diff != "" {
		t.Fatalf("after archive (-want +got):\n%s", diff)
	}
	e.mustRun("items", "restore", first)
	if diff := cmp.Diff([]string{"Laundry", "Dishes"}, titles(e.mustRun("items", "list", "--list", list))); diff != "" {
		t.Fatalf("after restore (-want +got):\n%s", diff)
	}

	snapPath := filepath.Join(t.TempDir(), "snap.json")
	e.mustRun("export", "--out", snapPath)

	other := newCLIEnv(t)
	counts := other.mustRun("import", snapPath)["data"].(map[string]any)
	want := map[string]any{"boards": 1.0, "lists": 1.0, "items": 2.0, "tags": 1.0, "itemTags": 1.0}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("import counts (-want +got):\n%s", diff)
	}
	show := other.mustRun("items", "show", first)
	if tags := show["meta"].(map[string]any)["tags"].([]any); len(tags) != 1 {
		t.Fatalf("expected imported tag relation; got %v", tags)
	}
}

func TestCLI_ErrorsAreJSON(t *testing.T) {
	e := newCLIEnv(t)
	_, stderr, err := runCLI(t, []string{"--dir", e.dir, "items", "show", "item-missing"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(stderr, &env); err != nil {
		t.Fatalf("stderr is not JSON: %v\n%s", err, stderr)
	}
	if env.Error.Code != "not_found" {
		t.Fatalf("code=%q message=%q", env.Error.Code, env.Error.Message)
	}

	_, _, err = runCLI(t, []string{"--dir", e.dir, "boards", "create", "--title", "  "})
	if err == nil {
		t.Fatalf("expected blank title to be rejected")
	}
}

func TestCLI_PublishBoard(t *testing.T) {
	e := newCLIEnv(t)
	boardID := e.id(e.mustRun("boards", "create", "--title", "Launch"))
	todo := e.id(e.mustRun("lists", "create", "--board", boardID, "--title", "Todo"))
	e.mustRun("items", "create", "--list", todo, "--title", "Announce", "--content", "Post to the *blog*")

	out := t.TempDir()
	env := e.mustRun("publish", "board", boardID, "--to", out, "--html", "--content")
	written := env["data"].(map[string]any)["written"].([]any)
	if len(written) != 2 {
		t.Fatalf("expected md and html; got %v", written)
	}
	page, err := os.ReadFile(filepath.Join(out, boardID+".html"))
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !bytes.Contains(page, []byte("<em>blog</em>")) {
		t.Fatalf("expected rendered markdown in page:\n%s", page)
	}
}
