package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revdash/revdash/pkg/errors"
)

func testClient(serverURL string) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		graphqlURL: serverURL,
	}
}

func threadsPage(nodes string, hasNext bool, cursor string) string {
	return `{"data":{"repository":{"pullRequest":{"reviewThreads":{` +
		`"pageInfo":{"hasNextPage":` + boolStr(hasNext) + `,"endCursor":"` + cursor + `"},` +
		`"nodes":[` + nodes + `]}}}}}`
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

const sampleThread = `{
	"id": "RT_abc",
	"isResolved": false,
	"isOutdated": false,
	"line": 12,
	"originalLine": 10,
	"path": "main.go",
	"resolvedBy": null,
	"comments": {"nodes": [{
		"body": "rename this",
		"author": {"login": "alice"},
		"outdated": false,
		"createdAt": "2026-08-01T10:00:00Z",
		"diffHunk": "@@ -8,5 +8,6 @@",
		"originalCommit": {"oid": "deadbeef"}
	}]}
}`

func TestListReviewThreads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "octo", req.Variables["owner"])
		assert.Equal(t, float64(42), req.Variables["pr"])
		w.Write([]byte(threadsPage(sampleThread, false, "")))
	}))
	defer server.Close()

	threads, err := testClient(server.URL).ListReviewThreads(context.Background(), "octo", "widgets", 42)
	require.NoError(t, err)
	require.Len(t, threads, 1)

	thread := threads[0]
	assert.Equal(t, "RT_abc", thread.ID)
	assert.Equal(t, "main.go", thread.Path)
	assert.Equal(t, 12, thread.Line)
	assert.Equal(t, 10, thread.OriginalLine)
	assert.False(t, thread.IsResolved)
	assert.Equal(t, "@@ -8,5 +8,6 @@", thread.DiffHunk)
	require.Len(t, thread.Comments, 1)
	assert.Equal(t, "alice", thread.Comments[0].Author)
	assert.Equal(t, "deadbeef", thread.Comments[0].OriginalCommitOID)
}

func TestListReviewThreadsPagination(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls++
		if calls == 1 {
			assert.Nil(t, req.Variables["cursor"])
			w.Write([]byte(threadsPage(sampleThread, true, "CUR1")))
			return
		}
		assert.Equal(t, "CUR1", req.Variables["cursor"])
		w.Write([]byte(threadsPage(sampleThread, false, "")))
	}))
	defer server.Close()

	threads, err := testClient(server.URL).ListReviewThreads(context.Background(), "octo", "widgets", 42)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, threads, 2)
}

func TestListReviewThreadsNullAuthor(t *testing.T) {
	ghost := `{
		"id": "RT_x", "isResolved": true, "isOutdated": false,
		"line": null, "originalLine": null, "path": "a.go",
		"resolvedBy": {"login": "bob"},
		"comments": {"nodes": [{
			"body": "old comment", "author": null, "outdated": true,
			"createdAt": "2026-01-01T00:00:00Z", "diffHunk": "", "originalCommit": null
		}]}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(threadsPage(ghost, false, "")))
	}))
	defer server.Close()

	threads, err := testClient(server.URL).ListReviewThreads(context.Background(), "octo", "widgets", 1)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "unknown", threads[0].Comments[0].Author)
	assert.Equal(t, "bob", threads[0].ResolvedBy)
	assert.Equal(t, 0, threads[0].Line)
}

func TestListReviewThreadsPRNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"repository":{"pullRequest":null}}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListReviewThreads(context.Background(), "octo", "widgets", 999)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodePRNotFound, appErr.Code)
}

func TestGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Field 'bogus' doesn't exist"}]}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListReviewThreads(context.Background(), "octo", "widgets", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field 'bogus' doesn't exist")
}

func TestGraphQLAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListReviewThreads(context.Background(), "octo", "widgets", 1)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeGitHubAuth, appErr.Code)
}

func TestResolveThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "RT_abc", req.Variables["threadId"])
		w.Write([]byte(`{"data":{"resolveReviewThread":{"thread":{"id":"RT_abc","isResolved":true}}}}`))
	}))
	defer server.Close()

	resolved, err := testClient(server.URL).ResolveThread(context.Background(), "RT_abc")
	require.NoError(t, err)
	assert.True(t, resolved)
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(&ClientOptions{})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeGitHubAuth, appErr.Code)

	_, err = NewClient(nil)
	require.Error(t, err)
}

func TestNewClientEnterpriseGraphQLURL(t *testing.T) {
	client, err := NewClient(&ClientOptions{
		Token:   "tok",
		BaseURL: "https://github.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.example.com/api/graphql", client.graphqlURL)
}

func TestNewClientDefaultGraphQLURL(t *testing.T) {
	client, err := NewClient(&ClientOptions{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, defaultGraphQLURL, client.graphqlURL)
}
