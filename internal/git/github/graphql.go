package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/revdash/revdash/pkg/errors"
	"github.com/revdash/revdash/pkg/logger"
)

// reviewThreadsQuery pages through the review threads of a pull
// request. Thread resolution state is GraphQL-only; the REST review
// comment endpoints do not expose it.
const reviewThreadsQuery = `
query($owner: String!, $repo: String!, $pr: Int!, $cursor: String) {
  repository(owner: $owner, name: $repo) {
    pullRequest(number: $pr) {
      reviewThreads(first: 100, after: $cursor) {
        pageInfo { hasNextPage endCursor }
        nodes {
          id
          isResolved
          isOutdated
          line
          originalLine
          path
          resolvedBy { login }
          comments(first: 50) {
            nodes {
              body
              author { login }
              outdated
              createdAt
              diffHunk
              originalCommit { oid }
            }
          }
        }
      }
    }
  }
}`

const resolveThreadMutation = `
mutation($threadId: ID!) {
  resolveReviewThread(input: { threadId: $threadId }) {
    thread { id isResolved }
  }
}`

// ThreadComment is a single comment in a review thread
type ThreadComment struct {
	Author            string
	Body              string
	CreatedAt         string
	Outdated          bool
	OriginalCommitOID string
}

// ReviewThread is one review conversation anchored to a file location
type ReviewThread struct {
	ID           string
	Path         string
	Line         int
	OriginalLine int
	IsResolved   bool
	IsOutdated   bool
	ResolvedBy   string
	DiffHunk     string
	Comments     []ThreadComment
}

// graphql wire types

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type actorNode struct {
	Login string `json:"login"`
}

type commentNode struct {
	Body           string     `json:"body"`
	Author         *actorNode `json:"author"`
	Outdated       bool       `json:"outdated"`
	CreatedAt      string     `json:"createdAt"`
	DiffHunk       string     `json:"diffHunk"`
	OriginalCommit *struct {
		OID string `json:"oid"`
	} `json:"originalCommit"`
}

type threadNode struct {
	ID           string     `json:"id"`
	IsResolved   bool       `json:"isResolved"`
	IsOutdated   bool       `json:"isOutdated"`
	Line         *int       `json:"line"`
	OriginalLine *int       `json:"originalLine"`
	Path         string     `json:"path"`
	ResolvedBy   *actorNode `json:"resolvedBy"`
	Comments     struct {
		Nodes []commentNode `json:"nodes"`
	} `json:"comments"`
}

type reviewThreadsData struct {
	Repository struct {
		PullRequest *struct {
			ReviewThreads struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []threadNode `json:"nodes"`
			} `json:"reviewThreads"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

type resolveThreadData struct {
	ResolveReviewThread struct {
		Thread struct {
			ID         string `json:"id"`
			IsResolved bool   `json:"isResolved"`
		} `json:"thread"`
	} `json:"resolveReviewThread"`
}

// graphQL posts a query and decodes the data payload into out
func (c *Client) graphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return errors.Wrap(errors.ErrCodeGitHubGraphQL, "failed to encode GraphQL request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(errors.ErrCodeGitHubGraphQL, "failed to build GraphQL request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeGitHubGraphQL, "GraphQL request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeGitHubGraphQL, "failed to read GraphQL response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.New(errors.ErrCodeGitHubAuth,
			fmt.Sprintf("GraphQL request rejected with status %d: check token scopes", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeGitHubGraphQL,
			fmt.Sprintf("GraphQL request returned status %d", resp.StatusCode))
	}

	var decoded graphqlResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return errors.Wrap(errors.ErrCodeGitHubGraphQL, "failed to decode GraphQL response", err)
	}
	if len(decoded.Errors) > 0 {
		return errors.New(errors.ErrCodeGitHubGraphQL,
			"GraphQL error: "+decoded.Errors[0].Message)
	}

	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return errors.Wrap(errors.ErrCodeGitHubGraphQL, "failed to decode GraphQL data", err)
	}
	return nil
}

// ListReviewThreads fetches every review thread of a pull request,
// following pagination until exhausted.
func (c *Client) ListReviewThreads(ctx context.Context, owner, repo string, number int) ([]ReviewThread, error) {
	var threads []ReviewThread
	var cursor *string

	for {
		variables := map[string]any{
			"owner":  owner,
			"repo":   repo,
			"pr":     number,
			"cursor": cursor,
		}

		var data reviewThreadsData
		if err := c.graphQL(ctx, reviewThreadsQuery, variables, &data); err != nil {
			return nil, err
		}

		pr := data.Repository.PullRequest
		if pr == nil {
			return nil, errors.New(errors.ErrCodePRNotFound,
				fmt.Sprintf("pull request not found: %s/%s#%d", owner, repo, number))
		}

		for _, node := range pr.ReviewThreads.Nodes {
			threads = append(threads, convertThread(node))
		}

		page := pr.ReviewThreads.PageInfo
		if !page.HasNextPage {
			break
		}
		cursor = &page.EndCursor
	}

	logger.Debug("Fetched review threads",
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.Int("pr", number),
		zap.Int("count", len(threads)),
	)

	return threads, nil
}

func convertThread(node threadNode) ReviewThread {
	thread := ReviewThread{
		ID:         node.ID,
		Path:       node.Path,
		IsResolved: node.IsResolved,
		IsOutdated: node.IsOutdated,
	}
	if node.Line != nil {
		thread.Line = *node.Line
	}
	if node.OriginalLine != nil {
		thread.OriginalLine = *node.OriginalLine
	}
	if node.ResolvedBy != nil {
		thread.ResolvedBy = node.ResolvedBy.Login
	}

	for i, c := range node.Comments.Nodes {
		comment := ThreadComment{
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
			Outdated:  c.Outdated,
		}
		if c.Author != nil {
			comment.Author = c.Author.Login
		} else {
			// Deleted accounts come back as a null author.
			comment.Author = "unknown"
		}
		if c.OriginalCommit != nil {
			comment.OriginalCommitOID = c.OriginalCommit.OID
		}
		// The diff hunk lives on comments, not on the thread itself.
		if i == 0 {
			thread.DiffHunk = c.DiffHunk
		}
		thread.Comments = append(thread.Comments, comment)
	}

	return thread
}

// ResolveThread marks a review thread resolved. The returned bool
// reflects the resolution state GitHub reports after the mutation.
func (c *Client) ResolveThread(ctx context.Context, threadID string) (bool, error) {
	var data resolveThreadData
	err := c.graphQL(ctx, resolveThreadMutation, map[string]any{"threadId": threadID}, &data)
	if err != nil {
		return false, err
	}
	return data.ResolveReviewThread.Thread.IsResolved, nil
}
