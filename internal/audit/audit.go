// Package audit classifies pull request review threads by whether the
// feedback they carry was acted on. Threads GitHub already marks
// resolved or outdated are taken at face value; the rest are checked
// against the local git diff to see whether the commented lines were
// touched since the comment was made.
package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/revdash/revdash/internal/git/github"
	"github.com/revdash/revdash/pkg/logger"
)

// Status is the audit verdict for a review thread
type Status string

const (
	// StatusResolved means the thread was explicitly resolved on GitHub
	StatusResolved Status = "Resolved"

	// StatusOutdated means GitHub detected the commented code changed
	StatusOutdated Status = "Outdated"

	// StatusAddressed means the thread is open but the local diff shows
	// the commented lines were modified
	StatusAddressed Status = "Addressed"

	// StatusUnresolved means no evidence the feedback was acted on
	StatusUnresolved Status = "Unresolved"
)

// AllStatuses lists verdicts in report order
var AllStatuses = []Status{StatusResolved, StatusOutdated, StatusAddressed, StatusUnresolved}

// Thread is a review thread with its audit verdict attached
type Thread struct {
	github.ReviewThread

	Status   Status
	Evidence string
}

// Differ produces file diffs against a base commit
type Differ interface {
	HasCommit(ctx context.Context, sha string) bool
	DiffFile(ctx context.Context, sha, path string) (string, error)
}

// Resolver marks review threads resolved
type Resolver interface {
	ResolveThread(ctx context.Context, threadID string) (bool, error)
}

// Auditor classifies review threads
type Auditor struct {
	differ Differ
}

// New creates an Auditor that verifies open threads against the given
// repository. A nil differ skips diff verification and leaves open
// threads unresolved.
func New(differ Differ) *Auditor {
	return &Auditor{differ: differ}
}

// Classify assigns a status and evidence string to every thread.
// Resolution and outdated flags short-circuit; only open, current
// threads hit the local diff.
func (a *Auditor) Classify(ctx context.Context, threads []github.ReviewThread) []Thread {
	result := make([]Thread, 0, len(threads))
	for _, rt := range threads {
		thread := Thread{ReviewThread: rt}

		switch {
		case rt.IsResolved:
			thread.Status = StatusResolved
			resolvedBy := rt.ResolvedBy
			if resolvedBy == "" {
				resolvedBy = "unknown"
			}
			thread.Evidence = "resolved by " + resolvedBy

		case rt.IsOutdated:
			thread.Status = StatusOutdated
			thread.Evidence = "GitHub detected code changed"

		default:
			thread.Status, thread.Evidence = a.verifyAgainstDiff(ctx, rt)
		}

		result = append(result, thread)
	}
	return result
}

// verifyAgainstDiff checks whether the commented lines changed since
// the comment's original commit.
func (a *Auditor) verifyAgainstDiff(ctx context.Context, rt github.ReviewThread) (Status, string) {
	var originalCommit string
	if len(rt.Comments) > 0 {
		originalCommit = rt.Comments[0].OriginalCommitOID
	}

	if a.differ == nil || originalCommit == "" || rt.OriginalLine == 0 {
		return StatusUnresolved, "unable to verify (missing commit/line info)"
	}

	if !a.differ.HasCommit(ctx, originalCommit) {
		return StatusUnresolved, "original commit not available locally"
	}

	diff, err := a.differ.DiffFile(ctx, originalCommit, rt.Path)
	if err != nil {
		logger.Debug("Diff verification failed",
			zap.String("path", rt.Path),
			zap.String("commit", originalCommit),
			zap.Error(err),
		)
		return StatusUnresolved, "diff failed"
	}

	if diff == "" {
		return StatusUnresolved, "no changes in file"
	}

	for _, h := range parseDiffHunks(diff) {
		if h.contains(rt.OriginalLine) {
			return StatusAddressed,
				fmt.Sprintf("hunk @@ -%d,%d overlaps line %d", h.start, h.count, rt.OriginalLine)
		}
	}

	return StatusUnresolved, fmt.Sprintf("no hunk overlaps line %d", rt.OriginalLine)
}

// AutoResolve resolves every Addressed thread and flips its status to
// Resolved on success. Failures are logged and skipped so one bad
// thread does not abort the rest.
func AutoResolve(ctx context.Context, resolver Resolver, threads []Thread) []Thread {
	for i := range threads {
		if threads[i].Status != StatusAddressed {
			continue
		}

		resolved, err := resolver.ResolveThread(ctx, threads[i].ID)
		if err != nil || !resolved {
			logger.Warn("Failed to resolve review thread",
				zap.String("thread", threads[i].ID),
				zap.String("path", threads[i].Path),
				zap.Error(err),
			)
			continue
		}

		threads[i].Status = StatusResolved
		threads[i].Evidence += " (auto-resolved)"
		logger.Info("Resolved review thread",
			zap.String("path", threads[i].Path),
			zap.Int("line", threads[i].OriginalLine),
		)
	}
	return threads
}
