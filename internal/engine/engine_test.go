package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/ghnotify/internal/github"
	"github.com/nhle/ghnotify/internal/model"
)

// fakeFetcher implements Fetcher with pluggable behavior per call.
type fakeFetcher struct {
	fetchPage    func(ctx context.Context, page, perPage int) (github.PageResult, error)
	fetchSubject func(ctx context.Context, lookupURL string) (*model.SubjectDetails, error)
	markRead     func(ctx context.Context, id string) error
	viewer       func(ctx context.Context) (string, error)
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page, perPage int) (github.PageResult, error) {
	if f.fetchPage == nil {
		return github.PageResult{}, nil
	}
	return f.fetchPage(ctx, page, perPage)
}

func (f *fakeFetcher) FetchSubject(ctx context.Context, lookupURL string) (*model.SubjectDetails, error) {
	if f.fetchSubject == nil {
		return &model.SubjectDetails{}, nil
	}
	return f.fetchSubject(ctx, lookupURL)
}

func (f *fakeFetcher) MarkThreadRead(ctx context.Context, id string) error {
	if f.markRead == nil {
		return nil
	}
	return f.markRead(ctx, id)
}

func (f *fakeFetcher) Viewer(ctx context.Context) (string, error) {
	if f.viewer == nil {
		return "octocat", nil
	}
	return f.viewer(ctx)
}

func validSettings() model.Settings {
	return model.Settings{
		Token:           "test-token",
		PollIntervalSec: 30,
		PageSize:        20,
	}
}

// newTestStore builds a store around the fake with a single-iteration
// sleep: the loop runs once, then parks until cancelled.
func newTestStore(t *testing.T, f Fetcher, cfg model.Settings) *Store {
	t.Helper()

	s := New(Options{
		Settings:   cfg,
		NewFetcher: func(string) Fetcher { return f },
		Logger:     zerolog.Nop(),
	})
	s.sleep = func(ctx context.Context, _ time.Duration) bool {
		<-ctx.Done()
		return false
	}
	s.debounce = time.Millisecond

	t.Cleanup(s.Stop)
	return s
}

func thread(id string) model.Thread {
	return model.Thread{
		ID:                 id,
		RepositoryFullName: "acme/widgets",
		SubjectTitle:       "thread " + id,
		SubjectType:        "Issue",
		SubjectURL:         "https://api.github.com/repos/acme/widgets/issues/" + id,
		Reason:             "subscribed",
		Unread:             true,
		UpdatedAt:          time.Now(),
		URL:                "https://api.github.com/notifications/threads/" + id,
	}
}

func threadIDs(threads []model.Thread) []string {
	ids := make([]string, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ID)
	}
	return ids
}
