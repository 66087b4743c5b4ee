package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsAuthAndVersionHeaders(t *testing.T) {
	t.Parallel()

	var gotAuth, gotVersion, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("X-GitHub-Api-Version")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok123")
	login, err := c.Viewer(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "octocat", login)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, apiVersion, gotVersion)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
}

func TestClientHTTPErrorCapturesStatusAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	_, err := c.FetchPage(context.Background(), 1, 10)
	require.Error(t, err)

	httpErr := AsHTTPError(err)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "rate limited", httpErr.BodyPreview)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClientHTTPErrorTruncatesBodyPreview(t *testing.T) {
	t.Parallel()

	long := make([]byte, 4096)
	for i := range long {
		long[i] = 'x'
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(long)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	_, err := c.Viewer(context.Background())

	httpErr := AsHTTPError(err)
	require.NotNil(t, httpErr)
	assert.Len(t, httpErr.BodyPreview, bodyPreviewLimit)
}

func TestClientDecodeErrorIsDistinctFromHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"this is": not json`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	_, err := c.FetchPage(context.Background(), 1, 10)

	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
	assert.Nil(t, AsHTTPError(err))
}

func TestClientUnreachableServerIsInvalidResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	c := NewClientWithBaseURL(srv.URL, "tok")
	_, err := c.Viewer(context.Background())

	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestMarkThreadRead(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusResetContent)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "tok")
	require.NoError(t, c.MarkThreadRead(context.Background(), "42"))

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/notifications/threads/42", gotPath)
}

func TestTimestampAcceptsBothFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "fractional seconds",
			in:   `"2026-08-30T12:34:56.789Z"`,
			want: time.Date(2026, 8, 30, 12, 34, 56, 789000000, time.UTC),
		},
		{
			name: "whole seconds",
			in:   `"2026-08-30T12:34:56Z"`,
			want: time.Date(2026, 8, 30, 12, 34, 56, 0, time.UTC),
		},
		{
			name: "offset zone",
			in:   `"2026-08-30T14:34:56+02:00"`,
			want: time.Date(2026, 8, 30, 14, 34, 56, 0, time.FixedZone("", 2*3600)),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ts))
			assert.True(t, ts.Time.Equal(tc.want), "got %v, want %v", ts.Time, tc.want)
		})
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	t.Parallel()

	var ts Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.Time.IsZero())
}
