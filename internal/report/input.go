// Package report implements the review report document generator.
// It transforms a validated report input into a single self-contained HTML
// document: inline styling and behavior, with only the diagram renderer
// loaded by external reference.
package report

import (
	"encoding/json"
	"fmt"
)

// Status values recognized in Input.Status. Anything else falls back to
// the merged presentation.
const (
	StatusMerged = "merged"
	StatusOpen   = "open"
	StatusDraft  = "draft"
)

// Section color names. Anything else falls back to coral.
const (
	ColorCoral  = "coral"
	ColorGreen  = "green"
	ColorIndigo = "indigo"
	ColorRed    = "red"
)

// Input is the full report payload. It is constructed once by the caller,
// validated, rendered, and discarded; nothing here is mutated by this package.
type Input struct {
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle,omitempty"`
	Status      string       `json:"status,omitempty"`
	Commits     []Commit     `json:"commits,omitempty"`
	Stats       *Stats       `json:"stats"`
	Sections    []Section    `json:"sections"`
	Files       []FileChange `json:"files"`
	ReviewNotes []string     `json:"reviewNotes,omitempty"`
}

// Commit is one entry of the header commit list
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// Stats holds the headline change metrics. Files, Insertions and Deletions
// are decoded loosely so that a wrong JSON type surfaces as a field-level
// validation error instead of aborting the whole decode.
type Stats struct {
	Files      any  `json:"files"`
	Insertions any  `json:"insertions"`
	Deletions  any  `json:"deletions"`
	Tests      *int `json:"tests,omitempty"`
}

// Section is one labeled content block of the report
type Section struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Icon        string       `json:"icon,omitempty"`
	Color       string       `json:"color,omitempty"`
	Subtitle    string       `json:"subtitle,omitempty"`
	Diagrams    []Diagram    `json:"diagrams,omitempty"`
	BeforeAfter *BeforeAfter `json:"beforeAfter,omitempty"`
	Callouts    []Callout    `json:"callouts,omitempty"`
	// ASCII is preformatted art embedded verbatim, without escaping.
	// The caller is trusted to supply safe content.
	ASCII string `json:"ascii,omitempty"`
}

// Diagram holds one diagram of a section. Source is opaque text handed to
// the diagram-rendering library; this package never parses it.
type Diagram struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"diagramSource"`
}

// BeforeAfter is a two-sided comparison card
type BeforeAfter struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Callout is a short annotated note. Text may carry limited inline markup
// and is embedded verbatim, without escaping.
type Callout struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// FileChange is one row of the file-change summary table
type FileChange struct {
	Name      string `json:"name"`
	Status    string `json:"status,omitempty"`
	Additions int    `json:"additions,omitempty"`
	Deletions int    `json:"deletions,omitempty"`
	Purpose   string `json:"purpose,omitempty"`
}

// ParseInput decodes a JSON document into an Input. A decode failure means
// the input is malformed; field-level problems are left for Validate.
func ParseInput(data []byte) (*Input, error) {
	in := &Input{}
	if err := json.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("failed to parse report input: %w", err)
	}
	return in, nil
}

// asNumber reports whether a loosely decoded value is numeric, and its value.
// encoding/json decodes JSON numbers as float64; int variants are accepted
// for inputs constructed directly in Go.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// normalizeColor maps an arbitrary color name onto the supported palette
func normalizeColor(color string) string {
	switch color {
	case ColorGreen, ColorIndigo, ColorRed:
		return color
	default:
		return ColorCoral
	}
}

// normalizeStatus maps an arbitrary status onto a recognized one
func normalizeStatus(status string) string {
	switch status {
	case StatusOpen, StatusDraft:
		return status
	default:
		return StatusMerged
	}
}
