package publish

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	// Raw HTML passthrough stays disabled (no html.WithUnsafe).
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

var boardTemplate = template.Must(template.New("board").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:1.5rem;background:#f6f6f6;color:#222}
.board{display:flex;gap:1rem;align-items:flex-start;overflow-x:auto}
.list{background:#e9e9e9;border-radius:6px;padding:.5rem;min-width:16rem;max-width:20rem}
.list h2{font-size:1rem;margin:.25rem .25rem .5rem}
.card{background:#fff;border-radius:4px;padding:.5rem;margin-bottom:.5rem;box-shadow:0 1px 1px rgba(0,0,0,.1)}
.card h3{font-size:.95rem;margin:0}
.tag{display:inline-block;font-size:.75rem;color:#555;margin-right:.25rem}
.content{font-size:.85rem}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="board">
{{- range .Lists}}
<section class="list" id="{{.ID}}">
<h2>{{.Title}} ({{len .Cards}})</h2>
{{- range .Cards}}
<article class="card" id="{{.ID}}">
<h3>{{.Title}}</h3>
{{- range .Tags}}<span class="tag">#{{.}}</span>{{end}}
{{- if .Content}}<div class="content">{{.Content}}</div>{{end}}
</article>
{{- end}}
</section>
{{- end}}
</div>
</body>
</html>
`))

type htmlCard struct {
	ID, Title string
	Tags      []string
	Content   template.HTML
}

type htmlList struct {
	ID, Title string
	Cards     []htmlCard
}

type htmlBoard struct {
	Title string
	Lists []htmlList
}

// RenderBoardHTML renders the board as a standalone page; card content is
// converted from markdown.
func RenderBoardHTML(ctx context.Context, s *store.Store, boardID string, opt RenderOptions) (string, error) {
	v, err := s.LoadBoardView(ctx, boardID)
	if err != nil {
		return "", err
	}
	return boardHTML(v, opt)
}

func boardHTML(v store.BoardView, opt RenderOptions) (string, error) {
	data := htmlBoard{Title: v.Board.Title}
	for _, l := range v.Lists {
		hl := htmlList{ID: l.ID, Title: l.Title}
		for _, it := range v.Items[l.ID] {
			hl.Cards = append(hl.Cards, card(it, v.Tags[it.ID], opt))
		}
		data.Lists = append(data.Lists, hl)
	}
	var b bytes.Buffer
	if err := boardTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func card(it model.Item, tags []string, opt RenderOptions) htmlCard {
	c := htmlCard{ID: it.ID, Title: it.Title, Tags: tags}
	if opt.IncludeContent {
		c.Content = renderMarkdownHTML(it.Content)
	}
	return c
}
