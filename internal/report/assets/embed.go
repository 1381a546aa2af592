// Package assets provides the embedded style and behavior resources inlined
// into generated report documents.
package assets

import (
	_ "embed"
)

// Stylesheet inlined into every generated document
//
//go:embed report.css
var ReportCSS string

// Behavior script inlined into every generated document
//
//go:embed report.js
var ReportJS string

// MermaidCDN is the external diagram-rendering library reference. It is the
// only non-inline resource a generated document loads.
const MermaidCDN = "https://cdn.jsdelivr.net/npm/mermaid@10.9.1/dist/mermaid.min.js"
