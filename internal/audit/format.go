package audit

import (
	"encoding/json"
	"fmt"
	"strings"
)

const maxCommentPreview = 80

// statusMarkers are the plain-text markers used in the summary list
var statusMarkers = map[Status]string{
	StatusResolved:   "OK",
	StatusOutdated:   "~~",
	StatusAddressed:  "->",
	StatusUnresolved: "!!",
}

// truncate flattens text to a single line capped at max characters
func truncate(text string, max int) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}

// FormatMarkdown renders the audit as a markdown report with a summary,
// a detail table, and a section per unresolved thread. With
// excludeResolved set, resolved threads are dropped from the report.
func FormatMarkdown(threads []Thread, excludeResolved bool) string {
	if excludeResolved {
		kept := make([]Thread, 0, len(threads))
		for _, t := range threads {
			if t.Status != StatusResolved {
				kept = append(kept, t)
			}
		}
		threads = kept
	}

	if len(threads) == 0 {
		return "# PR Feedback Audit\n\nAll review threads are resolved.\n"
	}

	counts := make(map[Status]int)
	for _, t := range threads {
		counts[t.Status]++
	}

	var sb strings.Builder
	sb.WriteString("# PR Feedback Audit\n\n")
	sb.WriteString("## Summary\n\n")
	for _, status := range AllStatuses {
		if counts[status] > 0 {
			fmt.Fprintf(&sb, "- **%s**: %d %s\n", status, counts[status], statusMarkers[status])
		}
	}

	sb.WriteString("\n## Details\n\n")
	sb.WriteString("| Status | File | Reviewer | Comment | Evidence |\n")
	sb.WriteString("|--------|------|----------|---------|----------|\n")
	for _, t := range threads {
		reviewer := "?"
		body := ""
		if len(t.Comments) > 0 {
			reviewer = t.Comments[0].Author
			body = truncate(t.Comments[0].Body, maxCommentPreview)
		}
		loc := t.Path
		if t.OriginalLine > 0 {
			loc = fmt.Sprintf("%s:%d", t.Path, t.OriginalLine)
		}
		fmt.Fprintf(&sb, "| **%s** | `%s` | %s | %s | %s |\n",
			t.Status, loc, reviewer, body, t.Evidence)
	}

	var unresolved []Thread
	for _, t := range threads {
		if t.Status == StatusUnresolved {
			unresolved = append(unresolved, t)
		}
	}
	if len(unresolved) > 0 {
		sb.WriteString("\n## Unresolved Threads (Action Required)\n")
		for i, t := range unresolved {
			line := "?"
			if t.OriginalLine > 0 {
				line = fmt.Sprintf("%d", t.OriginalLine)
			}
			fmt.Fprintf(&sb, "\n### %d. `%s:%s`\n\n", i+1, t.Path, line)
			if len(t.Comments) > 0 {
				first := t.Comments[0]
				fmt.Fprintf(&sb, "**%s** (%s):\n\n> %s\n", first.Author, first.CreatedAt, first.Body)
			}
			if t.DiffHunk != "" {
				fmt.Fprintf(&sb, "\n```diff\n%s\n```\n", t.DiffHunk)
			}
		}
	}

	return sb.String()
}

// threadJSON is the machine-readable shape of an audited thread
type threadJSON struct {
	ThreadID     string        `json:"thread_id"`
	Path         string        `json:"path"`
	Line         int           `json:"line,omitempty"`
	OriginalLine int           `json:"original_line,omitempty"`
	Status       Status        `json:"status"`
	IsResolved   bool          `json:"is_resolved"`
	IsOutdated   bool          `json:"is_outdated"`
	ResolvedBy   string        `json:"resolved_by,omitempty"`
	Evidence     string        `json:"evidence,omitempty"`
	Comments     []commentJSON `json:"comments"`
}

type commentJSON struct {
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	Outdated  bool   `json:"outdated"`
}

// FormatJSON renders the audit as indented JSON
func FormatJSON(threads []Thread) (string, error) {
	out := make([]threadJSON, 0, len(threads))
	for _, t := range threads {
		entry := threadJSON{
			ThreadID:     t.ID,
			Path:         t.Path,
			Line:         t.Line,
			OriginalLine: t.OriginalLine,
			Status:       t.Status,
			IsResolved:   t.IsResolved,
			IsOutdated:   t.IsOutdated,
			ResolvedBy:   t.ResolvedBy,
			Evidence:     t.Evidence,
			Comments:     make([]commentJSON, 0, len(t.Comments)),
		}
		for _, c := range t.Comments {
			entry.Comments = append(entry.Comments, commentJSON{
				Author:    c.Author,
				Body:      c.Body,
				CreatedAt: c.CreatedAt,
				Outdated:  c.Outdated,
			})
		}
		out = append(out, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
