package report

import (
	"fmt"
	"strings"
)

// Validate checks the input against the structural requirements and returns
// one human-readable message per distinct problem. It never stops at the
// first failure: a single pass reports everything, so the caller can fix
// the source data in one round trip. An empty slice means the input is
// acceptable to Render.
func Validate(in *Input) []string {
	var errs []string

	if in == nil {
		return []string{"input is required"}
	}

	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, "title is required and must be non-empty")
	}

	if in.Stats == nil {
		errs = append(errs, "stats is required")
	} else {
		for _, field := range []struct {
			name  string
			value any
		}{
			{"stats.files", in.Stats.Files},
			{"stats.insertions", in.Stats.Insertions},
			{"stats.deletions", in.Stats.Deletions},
		} {
			if _, ok := asNumber(field.value); !ok {
				errs = append(errs, fmt.Sprintf("%s must be a number", field.name))
			}
		}
	}

	if len(in.Sections) == 0 {
		errs = append(errs, "sections must be a non-empty array")
	}

	if len(in.Files) == 0 {
		errs = append(errs, "files must be a non-empty array")
	}

	return errs
}
