// Package dashboard finds open pull requests the user is involved in
// as a reviewer and submits review actions against them.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github.com/revdash/revdash/pkg/errors"
	"github.com/revdash/revdash/pkg/logger"
)

const (
	searchPerPage = 100

	maxTitleLen = 60
)

// Role describes how the user is involved in a PR
type Role string

const (
	RoleReviewer  Role = "reviewer"
	RoleCommenter Role = "commenter"
	RoleBoth      Role = "both"
)

// PR is an open pull request the user has interacted with
type PR struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Role   Role   `json:"role"`
}

// IssueSearcher is the slice of the GitHub search API used for discovery
type IssueSearcher interface {
	Issues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error)
}

// Discoverer finds pull requests via the search API
type Discoverer struct {
	search IssueSearcher
}

// NewDiscoverer creates a Discoverer backed by the given search service
func NewDiscoverer(search IssueSearcher) *Discoverer {
	return &Discoverer{search: search}
}

// Discover returns open PRs in the repository where the user reviewed,
// commented, or has a review requested. The user's own PRs are
// excluded and results are sorted by PR number.
func (d *Discoverer) Discover(ctx context.Context, owner, repo, username string) ([]PR, error) {
	qualifiers := []struct {
		term string
		role Role
	}{
		{"reviewed-by:" + username, RoleReviewer},
		{"commenter:" + username, RoleCommenter},
		{"review-requested:" + username, RoleReviewer},
	}

	seen := make(map[int]*PR)
	for _, q := range qualifiers {
		query := fmt.Sprintf("repo:%s/%s is:pr is:open %s", owner, repo, q.term)
		if err := d.collect(ctx, query, q.role, seen); err != nil {
			return nil, err
		}
	}

	result := make([]PR, 0, len(seen))
	for _, pr := range seen {
		if pr.Author == username {
			continue
		}
		result = append(result, *pr)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })

	logger.Debug("Discovered pull requests",
		zap.String("repo", owner+"/"+repo),
		zap.String("user", username),
		zap.Int("count", len(result)),
	)

	return result, nil
}

// collect runs one search query and merges the hits into seen. A PR
// found under both roles is marked as both.
func (d *Discoverer) collect(ctx context.Context, query string, role Role, seen map[int]*PR) error {
	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: searchPerPage},
	}

	for {
		result, resp, err := d.search.Issues(ctx, query, opts)
		if err != nil {
			return errors.Wrap(errors.ErrCodeGitHubAPI, "pull request search failed", err)
		}

		for _, issue := range result.Issues {
			number := issue.GetNumber()
			if existing, ok := seen[number]; ok {
				if existing.Role != role {
					existing.Role = RoleBoth
				}
				continue
			}
			author := issue.GetUser().GetLogin()
			if author == "" {
				author = "unknown"
			}
			seen[number] = &PR{
				Number: number,
				Title:  issue.GetTitle(),
				Author: author,
				URL:    issue.GetHTMLURL(),
				Role:   role,
			}
		}

		if resp.NextPage == 0 {
			return nil
		}
		opts.Page = resp.NextPage
	}
}

// truncateTitle flattens a title to one line capped at maxTitleLen
func truncateTitle(title string) string {
	title = strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	if len(title) <= maxTitleLen {
		return title
	}
	return title[:maxTitleLen-3] + "..."
}

// FormatTable renders the discovered PRs as a markdown table
func FormatTable(prs []PR, owner, repo, username string) string {
	if len(prs) == 0 {
		return fmt.Sprintf("No open PRs found where @%s has reviewed or commented.\n", username)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Open PRs reviewed by @%s in %s/%s\n\n", username, owner, repo)
	sb.WriteString("| # | Title | Author | Role | URL |\n")
	sb.WriteString("|---|-------|--------|------|-----|\n")
	for _, pr := range prs {
		fmt.Fprintf(&sb, "| %d | %s | @%s | %s | [Link](%s) |\n",
			pr.Number, truncateTitle(pr.Title), pr.Author, pr.Role, pr.URL)
	}
	fmt.Fprintf(&sb, "\n**%d** open PRs total.\n", len(prs))
	return sb.String()
}

// FormatJSON renders the discovered PRs as indented JSON
func FormatJSON(prs []PR) (string, error) {
	data, err := json.MarshalIndent(prs, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
