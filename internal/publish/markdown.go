package publish

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"kanban-cli/internal/store"
)

type RenderOptions struct {
	IncludeContent bool
}

// RenderBoardMarkdown writes the board as one markdown document: a heading per
// list and a bullet per card, in display order.
func RenderBoardMarkdown(ctx context.Context, s *store.Store, boardID string, opt RenderOptions) (string, error) {
	v, err := s.LoadBoardView(ctx, boardID)
	if err != nil {
		return "", err
	}
	return boardMarkdown(v, opt), nil
}

func boardMarkdown(v store.BoardView, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(v.Board.Title))
	writeLn("")
	for _, l := range v.Lists {
		items := v.Items[l.ID]
		writeLn(fmt.Sprintf("## %s (%d)", strings.TrimSpace(l.Title), len(items)))
		writeLn("")
		if len(items) == 0 {
			writeLn("_empty_")
			writeLn("")
			continue
		}
		for _, it := range items {
			line := "- " + strings.TrimSpace(it.Title)
			if tags := v.Tags[it.ID]; len(tags) > 0 {
				line += " `#" + strings.Join(tags, "` `#") + "`"
			}
			writeLn(line)
			if !opt.IncludeContent {
				continue
			}
			if c := strings.TrimSpace(it.Content); c != "" {
				for _, ln := range strings.Split(c, "\n") {
					writeLn("  " + ln)
				}
			}
		}
		writeLn("")
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}
