package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"kanban-cli/internal/store"
)

type WriteOptions struct {
	HTML           bool
	IncludeContent bool
	Overwrite      bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteBoard writes <toDir>/<boardID>.md and, with HTML set, <boardID>.html.
func WriteBoard(ctx context.Context, s *store.Store, boardID, toDir string, opt WriteOptions) (WriteResult, error) {
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return WriteResult{}, errors.New("missing board id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	v, err := s.LoadBoardView(ctx, boardID)
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	ro := RenderOptions{IncludeContent: opt.IncludeContent}
	var res WriteResult
	mdPath := filepath.Join(toDir, boardID+".md")
	if err := writeFile(mdPath, []byte(boardMarkdown(v, ro)), opt.Overwrite); err != nil {
		return res, err
	}
	res.Written = append(res.Written, mdPath)

	if opt.HTML {
		page, err := boardHTML(v, ro)
		if err != nil {
			return res, err
		}
		htmlPath := filepath.Join(toDir, boardID+".html")
		if err := writeFile(htmlPath, []byte(page), opt.Overwrite); err != nil {
			return res, err
		}
		res.Written = append(res.Written, htmlPath)
	}
	return res, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
