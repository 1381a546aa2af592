package audit

import (
	"regexp"
	"strconv"
)

// hunkHeaderPattern matches unified diff hunk headers. Only the old
// side matters here since comment line numbers refer to the state the
// reviewer saw.
var hunkHeaderPattern = regexp.MustCompile(`(?m)^@@ -(\d+)(?:,(\d+))? \+`)

type hunk struct {
	start int
	count int
}

// contains reports whether line falls inside the hunk's old range
func (h hunk) contains(line int) bool {
	return h.start <= line && line <= h.start+h.count
}

// parseDiffHunks extracts the old-side ranges from a unified diff. A
// header without a count ("@@ -5 +...") covers a single line.
func parseDiffHunks(diff string) []hunk {
	var hunks []hunk
	for _, m := range hunkHeaderPattern.FindAllStringSubmatch(diff, -1) {
		start, _ := strconv.Atoi(m[1])
		count := 1
		if m[2] != "" {
			count, _ = strconv.Atoi(m[2])
		}
		hunks = append(hunks, hunk{start: start, count: count})
	}
	return hunks
}
