package forge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient spins up an httptest server standing in for api.github.com
// and points a GitHubClient at it, following go-github's own mux-based
// testing convention.
func newTestClient(t *testing.T, pattern string, handler http.HandlerFunc) *GitHubClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gh := github.NewClient(nil)
	base, err := gh.BaseURL.Parse(server.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base

	return NewGitHubClient(gh, nil)
}

func TestFetchPullRequest_MapsCoreFields(t *testing.T) {
	c := newTestClient(t, "/repos/acme/widget/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"number": 7, "title": "add feature", "body": "desc", "state": "open", "draft": false,
			"base": {"ref": "main", "sha": "base123"},
			"head": {"ref": "feature", "sha": "head456"},
			"user": {"login": "alice"}
		}`)
	})

	info, err := c.FetchPullRequest(context.Background(), "acme", "widget", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, info.Number)
	assert.Equal(t, "add feature", info.Title)
	assert.Equal(t, "main", info.BaseRef)
	assert.Equal(t, "head456", info.HeadSHA)
	assert.Equal(t, "alice", info.AuthorID)
}

func TestListChangedFiles_FollowsPagination(t *testing.T) {
	calls := 0
	c := newTestClient(t, "/repos/acme/widget/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"filename": "b.go", "status": "modified", "additions": 1, "deletions": 0}]`)
			return
		}
		w.Header().Set("Link", `<https://x/repos/acme/widget/pulls/7/files?page=2>; rel="next"`)
		fmt.Fprint(w, `[{"filename": "a.go", "status": "added", "additions": 10, "deletions": 0}]`)
	})

	files, err := c.ListChangedFiles(context.Background(), "acme", "widget", 7)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].Path)
	assert.Equal(t, "b.go", files[1].Path)
	assert.Equal(t, 2, calls)
}

func TestResolveInlineThread_ReportsUnsupported(t *testing.T) {
	c := NewGitHubClient(github.NewClient(nil), nil)
	err := c.ResolveInlineThread(context.Background(), "acme", "widget", 1)
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestFindOpenPullRequestByHead_NoMatchReturnsNil(t *testing.T) {
	c := newTestClient(t, "/repos/acme/widget/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	pr, err := c.FindOpenPullRequestByHead(context.Background(), "acme", "widget", "feature")
	require.NoError(t, err)
	assert.Nil(t, pr)
}
