package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threadPayload = `[
  {
    "id": "101",
    "unread": true,
    "reason": "review_requested",
    "updated_at": "2026-08-30T10:00:00Z",
    "last_read_at": "2026-08-29T08:00:00.123Z",
    "url": "https://api.github.com/notifications/threads/101",
    "subject": {
      "title": "Fix flaky watcher test",
      "url": "https://api.github.com/repos/acme/widgets/pulls/7",
      "type": "PullRequest"
    },
    "repository": {
      "full_name": "acme/widgets",
      "owner": {"id": 9, "login": "acme", "avatar_url": "https://avatars.example/9"}
    }
  },
  {
    "id": "102",
    "unread": false,
    "reason": "mention",
    "updated_at": "2026-08-30T09:00:00Z",
    "last_read_at": null,
    "url": "https://api.github.com/notifications/threads/102",
    "subject": {
      "title": "Release v2.3.0",
      "url": "",
      "type": "Release"
    },
    "repository": {
      "full_name": "acme/widgets"
    }
  }
]`

func TestFetchPageDecodesThreads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(threadPayload))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	page, err := c.FetchPage(context.Background(), 1, 20)
	require.NoError(t, err)

	require.Len(t, page.Threads, 2)
	assert.False(t, page.HasNext)

	first := page.Threads[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, "acme/widgets", first.RepositoryFullName)
	require.NotNil(t, first.RepositoryOwner)
	assert.Equal(t, int64(9), first.RepositoryOwner.ID)
	assert.Equal(t, "PullRequest", first.SubjectType)
	assert.Equal(t, "https://api.github.com/repos/acme/widgets/pulls/7", first.SubjectURL)
	assert.True(t, first.Unread)
	assert.False(t, first.LastReadAt.IsZero())

	second := page.Threads[1]
	assert.Nil(t, second.RepositoryOwner)
	assert.Empty(t, second.SubjectURL)
	assert.True(t, second.LastReadAt.IsZero())
}

func TestFetchPageClampsParameters(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"), "page must be floored to 1")
		assert.Equal(t, "50", r.URL.Query().Get("per_page"), "per_page must be clamped to 50")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	page, err := c.FetchPage(context.Background(), 0, 999)
	require.NoError(t, err)
	assert.Empty(t, page.Threads)
}

func TestFetchPageReadsLinkHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", fmt.Sprintf(
			`<%s/notifications?page=2&per_page=20>; rel="next", <%s/notifications?page=5&per_page=20>; rel="last"`,
			r.Host, r.Host,
		))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	page, err := c.FetchPage(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.True(t, page.HasNext)
}

func TestHasNextLink(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		link string
		want bool
	}{
		{"empty header", "", false},
		{"next present", `<https://api.github.com/notifications?page=2>; rel="next"`, true},
		{"next among others", `<u1>; rel="prev", <u2>; rel="next", <u3>; rel="last"`, true},
		{"only prev and last", `<u1>; rel="prev", <u3>; rel="last"`, false},
		{"unquoted rel", `<u2>; rel=next`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, hasNextLink(tc.link))
		})
	}
}

func TestFetchSubjectExtractsParticipantsInPriorityOrder(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/7", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"html_url": "https://github.com/acme/widgets/pull/7",
			"user": {"id": 1, "login": "opener", "avatar_url": "a1"},
			"author": {"id": 2, "login": "author", "avatar_url": "a2"},
			"requested_reviewers": [
				{"id": 3, "login": "rev1", "avatar_url": "a3"},
				{"id": 1, "login": "opener", "avatar_url": "a1"}
			],
			"assignees": [
				{"id": 4, "login": "assignee", "avatar_url": "a4"},
				{"id": 3, "login": "rev1", "avatar_url": "a3"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	details, err := c.FetchSubject(context.Background(), srv.URL+"/repos/acme/widgets/pulls/7")
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/acme/widgets/pull/7", details.WebURL)

	logins := make([]string, 0, len(details.Participants))
	for _, p := range details.Participants {
		logins = append(logins, p.Login)
	}
	assert.Equal(t, []string{"opener", "author", "rev1", "assignee"}, logins)
}

func TestFetchSubjectIgnoresMissingFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"html_url": "https://github.com/acme/widgets/commit/abc"}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	details, err := c.FetchSubject(context.Background(), srv.URL+"/x")
	require.NoError(t, err)
	assert.Empty(t, details.Participants)
}
