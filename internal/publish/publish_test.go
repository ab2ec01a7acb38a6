package publish

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	"github.com/google/go-cmp/cmp"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	mustCreate := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err = s.Boards().Create(ctx, model.Board{ID: "b1", Title: "Release"})
	mustCreate(err)
	_, err = s.Lists().Create(ctx, model.List{ID: "l1", BoardID: "b1", Title: "Doing"})
	mustCreate(err)
	_, err = s.Lists().Create(ctx, model.List{ID: "l2", BoardID: "b1", Title: "Done", Order: 1})
	mustCreate(err)
	_, err = s.Items().Create(ctx, model.Item{ID: "i1", ListID: "l1", Title: "Write notes", Content: "Some **markdown** <script>x</script>"})
	mustCreate(err)
	_, err = s.Tags().Create(ctx, model.Tag{ID: "t1", BoardID: "b1", Title: "docs"})
	mustCreate(err)
	_, err = s.ItemTags().Create(ctx, model.ItemTag{ID: "it1", ItemID: "i1", TagID: "t1", BoardID: "b1"})
	mustCreate(err)
	return s
}

func TestRenderBoardMarkdown(t *testing.T) {
	s := seededStore(t)
	md, err := RenderBoardMarkdown(context.Background(), s, "b1", RenderOptions{IncludeContent: true})
	if err != nil {
		t.Fatalf("RenderBoardMarkdown: %v", err)
	}
	want := strings.Join([]string{
		"# Release",
		"",
		"## Doing (1)",
		"",
		"- Write notes `#docs`",
		"  Some **markdown** <script>x</script>",
		"",
		"## Done (0)",
		"",
		"_empty_",
		"",
	}, "\n")
	if diff := cmp.Diff(want, md); diff != "" {
		t.Fatalf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderBoardHTML_RendersContentWithoutRawHTML(t *testing.T) {
	s := seededStore(t)
	page, err := RenderBoardHTML(context.Background(), s, "b1", RenderOptions{IncludeContent: true})
	if err != nil {
		t.Fatalf("RenderBoardHTML: %v", err)
	}
	for _, want := range []string{"<title>Release</title>", "Doing (1)", "<strong>markdown</strong>", "#docs"} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
	if strings.Contains(page, "<script>x</script>") {
		t.Fatalf("raw HTML from card content must not pass through")
	}
}

func TestWriteBoard_RefusesOverwrite(t *testing.T) {
	s := seededStore(t)
	dir := t.TempDir()
	res, err := WriteBoard(context.Background(), s, "b1", dir, WriteOptions{HTML: true})
	if err != nil {
		t.Fatalf("WriteBoard: %v", err)
	}
	want := []string{filepath.Join(dir, "b1.md"), filepath.Join(dir, "b1.html")}
	if diff := cmp.Diff(want, res.Written); diff != "" {
		t.Fatalf("written mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(want[1]); err != nil {
		t.Fatalf("expected html file: %v", err)
	}
	if _, err := WriteBoard(context.Background(), s, "b1", dir, WriteOptions{}); err == nil {
		t.Fatalf("expected second write without --overwrite to fail")
	}
	if _, err := WriteBoard(context.Background(), s, "b1", dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}
