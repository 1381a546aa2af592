// Package prurl parses pull request references and git remote URLs.
// A reference may be a bare PR number, in which case the owner and repo
// come from the current repository's origin remote, or a full pull
// request URL including GitHub Enterprise hosts.
package prurl

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// PRRef identifies a single pull request
type PRRef struct {
	// Host is the full host (e.g., github.com, github.example.com)
	Host string

	// Owner is the repository owner/organization
	Owner string

	// Repo is the repository name
	Repo string

	// Number is the PR number
	Number int
}

// String returns a human-readable representation
func (r *PRRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

var (
	pullPathPattern = regexp.MustCompile(`^/([^/]+)/([^/]+)/pull/(\d+)`)

	// git@github.com:owner/repo.git
	sshRemotePattern = regexp.MustCompile(`^(?:ssh://)?git@([^:/]+)[:/]([^/]+)/(.+?)(?:\.git)?$`)

	// https://github.com/owner/repo.git
	httpsRemotePattern = regexp.MustCompile(`^https?://([^/]+)/([^/]+)/(.+?)(?:\.git)?/?$`)
)

// Parse resolves a pull request reference. A bare number ("123" or
// "#123") returns a PRRef with only Number set; the caller fills in the
// repository from the origin remote. Anything else must be a pull
// request URL such as https://github.com/owner/repo/pull/123, including
// enterprise hosts with the same path shape.
func Parse(ref string) (*PRRef, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty PR reference")
	}

	bare := strings.TrimPrefix(ref, "#")
	if n, err := strconv.Atoi(bare); err == nil {
		if n <= 0 {
			return nil, fmt.Errorf("invalid PR number: %d", n)
		}
		return &PRRef{Number: n}, nil
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid PR URL: %w", err)
	}

	host := strings.ToLower(parsed.Host)
	if host == "" {
		return nil, fmt.Errorf("missing host in PR URL: %s", ref)
	}

	matches := pullPathPattern.FindStringSubmatch(parsed.Path)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid pull request URL format: %s", ref)
	}

	number, err := strconv.Atoi(matches[3])
	if err != nil {
		return nil, fmt.Errorf("invalid PR number: %s", matches[3])
	}

	return &PRRef{
		Host:   host,
		Owner:  matches[1],
		Repo:   matches[2],
		Number: number,
	}, nil
}

// ParseRemote extracts host, owner, and repo from a git remote URL.
// Both SSH (git@github.com:owner/repo.git) and HTTPS forms are accepted.
func ParseRemote(remote string) (host, owner, repo string, err error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", "", "", fmt.Errorf("empty remote URL")
	}

	if matches := sshRemotePattern.FindStringSubmatch(remote); len(matches) == 4 {
		return strings.ToLower(matches[1]), matches[2], matches[3], nil
	}
	if matches := httpsRemotePattern.FindStringSubmatch(remote); len(matches) == 4 {
		return strings.ToLower(matches[1]), matches[2], matches[3], nil
	}

	return "", "", "", fmt.Errorf("unrecognized remote URL format: %s", remote)
}
