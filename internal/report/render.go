package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/revdash/revdash/internal/report/assets"
)

// Renderer turns a validated Input into a self-contained HTML document.
// The style and behavior resources are captured at construction so Render
// stays a pure function of its input: identical input always produces
// byte-identical output. Render performs no I/O and assumes validation has
// already happened; it does not re-check the input.
type Renderer struct {
	css        string
	js         string
	diagramLib string
}

// NewRenderer creates a renderer backed by the embedded assets
func NewRenderer() *Renderer {
	return &Renderer{
		css:        assets.ReportCSS,
		js:         assets.ReportJS,
		diagramLib: assets.MermaidCDN,
	}
}

// docBuilder assembles the document. The escape-or-verbatim decision is
// made at the call site through two distinct methods: text() escapes,
// markup() trusts. Every user-supplied value goes through text() unless
// the field is documented as verbatim (ascii, callout text, diagram source).
type docBuilder struct {
	sb strings.Builder
}

// markup writes trusted markup verbatim
func (b *docBuilder) markup(s string) {
	b.sb.WriteString(s)
}

// markupf writes formatted trusted markup; arguments must already be safe
func (b *docBuilder) markupf(format string, args ...any) {
	fmt.Fprintf(&b.sb, format, args...)
}

// text writes user-supplied text with the five HTML-sensitive characters
// escaped. This is the sole injection defense of the generator.
func (b *docBuilder) text(s string) {
	b.sb.WriteString(escape(s))
}

func (b *docBuilder) String() string {
	return b.sb.String()
}

// escape converts the five HTML-sensitive characters to their entity
// equivalents. The ampersand goes first so entities are not double-escaped.
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}

// statValue formats a loosely decoded numeric stat for display. Whole
// numbers drop the fraction; Validate guarantees the value is numeric.
func statValue(v any) string {
	n, _ := asNumber(v)
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// statusLabel returns the display text for a normalized status
func statusLabel(status string) string {
	return strings.ToUpper(status)
}

// Render assembles the document in a fixed order: navigation, header,
// metrics, sections, file table, review notes. Callers persist the result;
// this function never touches the file system or network.
func (r *Renderer) Render(in *Input) string {
	b := &docBuilder{}

	b.markup("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.markup("<meta charset=\"UTF-8\">\n")
	b.markup("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.markup("<title>")
	b.text(in.Title)
	b.markup("</title>\n")
	b.markupf("<script src=%q></script>\n", r.diagramLib)
	b.markup("<style>\n")
	b.markup(r.css)
	b.markup("\n</style>\n</head>\n<body>\n")

	r.renderNav(b, in)

	b.markup("<main>\n")
	r.renderHeader(b, in)
	r.renderMetrics(b, in)
	for i := range in.Sections {
		r.renderSection(b, &in.Sections[i])
	}
	r.renderFileTable(b, in)
	r.renderReviewNotes(b, in)
	b.markup("</main>\n")

	b.markup("<script>\n")
	b.markup(r.js)
	b.markup("\n</script>\n</body>\n</html>\n")

	return b.String()
}

// renderNav writes the sidebar: overview, one link per section in input
// order, the file table, and review notes only when notes exist.
func (r *Renderer) renderNav(b *docBuilder, in *Input) {
	b.markup("<nav class=\"sidebar\">\n")
	b.markup("<p class=\"nav-title\">Contents</p>\n")
	b.markup("<a class=\"nav-link active\" href=\"#overview\">Overview</a>\n")
	for i := range in.Sections {
		s := &in.Sections[i]
		b.markupf("<a class=\"nav-link\" href=\"#%s\">", escape(s.ID))
		b.text(sectionIcon(s))
		b.markup(" ")
		b.text(s.Title)
		b.markup("</a>\n")
	}
	b.markup("<a class=\"nav-link\" href=\"#files\">Files Changed</a>\n")
	if len(in.ReviewNotes) > 0 {
		b.markup("<a class=\"nav-link\" href=\"#review\">Review Notes</a>\n")
	}
	b.markup("</nav>\n")
}

func (r *Renderer) renderHeader(b *docBuilder, in *Input) {
	status := normalizeStatus(in.Status)

	b.markup("<header class=\"report-header\" id=\"overview\">\n")
	b.markupf("<span class=\"status-badge status-%s\">%s</span>\n", status, statusLabel(status))
	b.markup("<h1>")
	b.text(in.Title)
	b.markup("</h1>\n")
	if in.Subtitle != "" {
		b.markup("<p class=\"subtitle\">")
		b.text(in.Subtitle)
		b.markup("</p>\n")
	}
	if len(in.Commits) > 0 {
		b.markup("<ul class=\"commit-list\">\n")
		for _, c := range in.Commits {
			b.markup("<li><code>")
			b.text(c.SHA)
			b.markup("</code>")
			b.text(c.Message)
			b.markup("</li>\n")
		}
		b.markup("</ul>\n")
	}
	b.markup("</header>\n")
}

// renderMetrics writes the headline stat cards. The tests card appears
// only when stats.tests is present in the input.
func (r *Renderer) renderMetrics(b *docBuilder, in *Input) {
	b.markup("<section class=\"metrics\">\n")
	b.markupf("<div class=\"metric-card metric-files\"><div class=\"metric-value\">%s</div><div class=\"metric-label\">Files Changed</div></div>\n",
		statValue(in.Stats.Files))
	b.markupf("<div class=\"metric-card metric-insertions\"><div class=\"metric-value\">+%s</div><div class=\"metric-label\">Insertions</div></div>\n",
		statValue(in.Stats.Insertions))
	b.markupf("<div class=\"metric-card metric-deletions\"><div class=\"metric-value\">-%s</div><div class=\"metric-label\">Deletions</div></div>\n",
		statValue(in.Stats.Deletions))
	if in.Stats.Tests != nil {
		b.markupf("<div class=\"metric-card metric-tests\"><div class=\"metric-value\">%d</div><div class=\"metric-label\">Tests</div></div>\n",
			*in.Stats.Tests)
	}
	b.markup("</section>\n")
}

// sectionIcon returns the section glyph, defaulting when none is given
func sectionIcon(s *Section) string {
	if s.Icon == "" {
		return "📋"
	}
	return s.Icon
}

func (r *Renderer) renderSection(b *docBuilder, s *Section) {
	color := normalizeColor(s.Color)

	b.markupf("<section class=\"feature color-%s\" id=\"%s\">\n", color, escape(s.ID))
	b.markup("<h2><span class=\"section-icon\">")
	b.text(sectionIcon(s))
	b.markup("</span>")
	b.text(s.Title)
	b.markup("</h2>\n")
	if s.Subtitle != "" {
		b.markup("<p class=\"section-subtitle\">")
		b.text(s.Subtitle)
		b.markup("</p>\n")
	}

	for _, d := range s.Diagrams {
		b.markup("<div class=\"diagram-block\">\n<h3>")
		b.text(d.Title)
		b.markup("</h3>\n")
		if d.Description != "" {
			b.markup("<p class=\"diagram-description\">")
			b.text(d.Description)
			b.markup("</p>\n")
		}
		// Diagram source is opaque to the generator; the rendering
		// library interprets it in the browser.
		b.markup("<pre class=\"mermaid\">\n")
		b.markup(d.Source)
		b.markup("\n</pre>\n</div>\n")
	}

	if s.BeforeAfter != nil {
		b.markup("<div class=\"before-after\">\n")
		b.markup("<div class=\"compare-card compare-before\"><h4>Before</h4><p>")
		b.text(s.BeforeAfter.Before)
		b.markup("</p></div>\n")
		b.markup("<div class=\"compare-card compare-after\"><h4>After</h4><p>")
		b.text(s.BeforeAfter.After)
		b.markup("</p></div>\n")
		b.markup("</div>\n")
	}

	for _, c := range s.Callouts {
		b.markupf("<div class=\"callout callout-%s\">", normalizeColor(c.Color))
		// Callout text carries intentional inline markup; embedded
		// verbatim by contract with the content author.
		b.markup(c.Text)
		b.markup("</div>\n")
	}

	if s.ASCII != "" {
		b.markup("<pre class=\"ascii-art\">\n")
		b.markup(s.ASCII)
		b.markup("\n</pre>\n")
	}

	b.markup("</section>\n")
}

func (r *Renderer) renderFileTable(b *docBuilder, in *Input) {
	b.markup("<h2 class=\"block-title\" id=\"files\">Files Changed</h2>\n")
	b.markup("<table class=\"file-table\">\n")
	b.markup("<thead><tr><th>File</th><th>Status</th><th>Changes</th><th>Purpose</th></tr></thead>\n")
	b.markup("<tbody>\n")
	for _, f := range in.Files {
		b.markup("<tr><td><code class=\"file-name\">")
		b.text(f.Name)
		b.markup("</code></td><td>")
		if f.Status == "new" {
			b.markup("<span class=\"file-badge file-new\">NEW</span>")
		} else {
			b.markup("<span class=\"file-badge file-mod\">MOD</span>")
		}
		b.markup("</td><td>")
		if f.Additions > 0 {
			b.markupf("<span class=\"delta-add\">+%d</span>", f.Additions)
		}
		if f.Deletions > 0 {
			b.markupf("<span class=\"delta-del\">-%d</span>", f.Deletions)
		}
		b.markup("</td><td class=\"file-purpose\">")
		b.text(f.Purpose)
		b.markup("</td></tr>\n")
	}
	b.markup("</tbody>\n</table>\n")
}

// renderReviewNotes writes the checklist block, omitted entirely when
// there are no notes.
func (r *Renderer) renderReviewNotes(b *docBuilder, in *Input) {
	if len(in.ReviewNotes) == 0 {
		return
	}
	b.markup("<h2 class=\"block-title\" id=\"review\">Review Notes</h2>\n")
	b.markup("<ul class=\"checklist\">\n")
	for _, note := range in.ReviewNotes {
		b.markup("<li><input type=\"checkbox\"><span>")
		b.text(note)
		b.markup("</span></li>\n")
	}
	b.markup("</ul>\n")
}
