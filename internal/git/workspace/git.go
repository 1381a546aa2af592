// Package workspace runs git commands against the local repository.
// It is used to resolve the origin remote, the current branch, and file
// diffs when checking whether review feedback lines were touched.
package workspace

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/revdash/revdash/pkg/errors"
	"github.com/revdash/revdash/pkg/logger"
)

const (
	// GitOperationTimeout bounds individual git commands so a hung
	// command cannot block the whole run.
	GitOperationTimeout = 30 * time.Second
)

// Repo wraps git operations rooted at a repository path. An empty path
// runs commands in the process working directory.
type Repo struct {
	path string
}

// New creates a Repo for the given path
func New(path string) *Repo {
	return &Repo{path: path}
}

// run executes a git command and returns its trimmed stdout
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, GitOperationTimeout)
	defer cancel()

	gitArgs := args
	if r.path != "" {
		gitArgs = append([]string{"-C", r.path}, args...)
	}

	cmd := exec.CommandContext(timeoutCtx, "git", gitArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if timeoutCtx.Err() == context.DeadlineExceeded {
			return "", errors.Wrap(errors.ErrCodeGitCommand,
				fmt.Sprintf("git %s timed out after %v", args[0], GitOperationTimeout), err)
		}
		return "", errors.Wrap(errors.ErrCodeGitCommand,
			fmt.Sprintf("git %s failed: %s", args[0], strings.TrimSpace(stderr.String())), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// RemoteURL returns the URL of the origin remote
func (r *Repo) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeGitRemote, "failed to resolve origin remote", err)
	}
	return out, nil
}

// CurrentBranch returns the checked out branch name. A detached HEAD
// returns an error since there is no branch to report against.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "HEAD" {
		return "", errors.New(errors.ErrCodeGitNoBranch, "repository is in detached HEAD state")
	}
	return out, nil
}

// HasCommit reports whether the given commit exists locally. Comments
// on force-pushed branches can reference commits that were never
// fetched; those diffs cannot be computed.
func (r *Repo) HasCommit(ctx context.Context, sha string) bool {
	_, err := r.run(ctx, "cat-file", "-e", sha+"^{commit}")
	return err == nil
}

// DiffFile returns the unified diff for a single file between the given
// commit and the working tree. An empty diff means the file did not
// change since that commit.
func (r *Repo) DiffFile(ctx context.Context, sha, path string) (string, error) {
	out, err := r.run(ctx, "diff", sha, "--", path)
	if err != nil {
		logger.Debug("File diff failed",
			zap.String("sha", sha),
			zap.String("file", path),
			zap.Error(err),
		)
		return "", err
	}
	return out, nil
}
