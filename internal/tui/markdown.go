package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width; building one is not cheap and
	// auto-style detection can block on terminal queries.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders item content for the detail view. style is the
// configured markdown_style: "auto", "light", "dark" or "notty".
func renderMarkdown(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style = markdownStyle(style)
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	r := mdRenderers[key]
	if r == nil {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
		if style == styles.NoTTYStyle {
			opts = append(opts, glamour.WithStandardStyle(style))
		} else {
			opts = append(opts, glamour.WithStyles(markdownStyleConfig(style)))
		}
		rr, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle(configured string) string {
	switch v := strings.ToLower(strings.TrimSpace(configured)); v {
	case styles.LightStyle, styles.DarkStyle, styles.NoTTYStyle:
		return v
	}
	if t := themeOverride(); t != "" {
		return t
	}
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if styleName == styles.LightStyle {
		cfg = styles.LightStyleConfig
	}

	text := mdColor(colorSurfaceFg, styleName)
	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.H1.Color = text
	cfg.H1.BackgroundColor = nil
	cfg.H2.Color = text

	link := mdColor(colorAccent, styleName)
	cfg.Link.Color = link
	cfg.Link.Underline = boolPtr(true)
	cfg.LinkText.Color = link

	cfg.Code.Color = text
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.BlockQuote.Faint = boolPtr(false)
	// The detail box already pads its content.
	zero := uint(0)
	cfg.Document.Margin = &zero
	return cfg
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	if styleName == styles.LightStyle {
		return &c.Light
	}
	return &c.Dark
}

func boolPtr(b bool) *bool { return &b }
