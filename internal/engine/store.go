// Package engine owns the notification list's lifecycle: the recurring
// poll loop, incremental load-more pagination, and bounded-concurrency
// subject enrichment. It is UI-free; the presentation layer observes
// snapshots and invokes the public operations.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/ghnotify/internal/github"
	"github.com/nhle/ghnotify/internal/model"
)

// Fetcher is the network surface the engine needs. *github.Client
// satisfies it; tests substitute fakes.
type Fetcher interface {
	FetchPage(ctx context.Context, page, perPage int) (github.PageResult, error)
	FetchSubject(ctx context.Context, lookupURL string) (*model.SubjectDetails, error)
	MarkThreadRead(ctx context.Context, id string) error
	Viewer(ctx context.Context) (string, error)
}

// FetcherFactory builds a Fetcher for a token. The engine rebuilds its
// fetcher whenever the token changes.
type FetcherFactory func(token string) Fetcher

// Snapshot is an immutable view of the engine state handed to
// observers. Slices and maps are copies; observers may retain them.
type Snapshot struct {
	Threads     []model.Thread
	Details     map[string]model.SubjectDetails
	Message     string
	LoadMoreMsg string
	LoadingMore bool
	Polling     bool
	HasMore     bool
	LastPoll    time.Time
	Settings    model.Settings
}

// Options configures a Store.
type Options struct {
	// Settings are the initial settings; clamped on construction.
	Settings model.Settings

	// NewFetcher builds the network client for a token. Required.
	NewFetcher FetcherFactory

	// Persist, when non-nil, is called with the current settings after
	// an interval or page-size setter. Failures are logged, not fatal.
	Persist func(model.Settings) error

	// SaveToken, when non-nil, is called once a debounced token edit
	// settles. Failures are logged, not fatal.
	SaveToken func(token string) error

	// Logger receives structured diagnostics. Fire-and-forget.
	Logger zerolog.Logger
}

// now is replaceable in tests.
var now = time.Now

const (
	// maxConsecutiveFailures stops the poll loop once reached.
	maxConsecutiveFailures = 3

	// tokenDebounce delays the restart triggered by token edits so the
	// loop is not restarted on every keystroke.
	tokenDebounce = 600 * time.Millisecond

	// enrichWorkers bounds concurrent subject fetches.
	enrichWorkers = 4

	updateBuffer = 16
)

// Store is the single owner of the notification list, detail map,
// pagination cursor, and status flags. All mutation serializes through
// its mutex; no other component writes these fields.
type Store struct {
	mu sync.Mutex

	settings model.Settings
	threads  []model.Thread
	details  map[string]model.SubjectDetails

	// nextPage is the pagination cursor; 0 means no further pages are
	// known to exist.
	nextPage int

	loadingMore bool
	message     string
	loadMoreMsg string
	lastPoll    time.Time
	polling     bool
	failures    int

	// pollGen tags each poll loop; results from a stale generation are
	// discarded before touching state.
	pollGen    uint64
	pollCancel context.CancelFunc

	// enrichGen tags each prefetch batch the same way.
	enrichGen uint64

	fetcher    Fetcher
	newFetcher FetcherFactory
	persist    func(model.Settings) error
	saveToken  func(string) error
	log        zerolog.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc

	tokenTimer *time.Timer

	updates chan Snapshot

	// sleep waits between poll iterations; replaced in tests. Returns
	// false when the context was cancelled mid-wait.
	sleep func(ctx context.Context, d time.Duration) bool

	debounce time.Duration
}

// New creates a Store with the given options. Settings are clamped
// into their valid ranges; the poll loop is not started until Start.
func New(opts Options) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		settings:   opts.Settings.Clamped(),
		details:    make(map[string]model.SubjectDetails),
		newFetcher: opts.NewFetcher,
		persist:    opts.Persist,
		saveToken:  opts.SaveToken,
		log:        opts.Logger,
		baseCtx:    ctx,
		baseCancel: cancel,
		updates:    make(chan Snapshot, updateBuffer),
		sleep:      sleepCtx,
		debounce:   tokenDebounce,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Updates returns the channel observers receive snapshots on. Sends
// never block; when the buffer is full the snapshot is dropped and the
// observer picks up the state on its next read of Snapshot().
func (s *Store) Updates() <-chan Snapshot {
	return s.updates
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	threads := make([]model.Thread, len(s.threads))
	copy(threads, s.threads)

	details := make(map[string]model.SubjectDetails, len(s.details))
	for id, d := range s.details {
		details[id] = d
	}

	return Snapshot{
		Threads:     threads,
		Details:     details,
		Message:     s.message,
		LoadMoreMsg: s.loadMoreMsg,
		LoadingMore: s.loadingMore,
		Polling:     s.polling,
		HasMore:     s.nextPage != 0,
		LastPoll:    s.lastPoll,
		Settings:    s.settings,
	}
}

// publishLocked pushes a snapshot to observers without blocking.
func (s *Store) publishLocked() {
	select {
	case s.updates <- s.snapshotLocked():
	default:
		// Observer is behind; it will catch up via Snapshot().
	}
}

// setThreadsLocked replaces the list, dropping any duplicate ids while
// preserving first-seen order, and prunes the detail map to the new
// membership.
func (s *Store) setThreadsLocked(threads []model.Thread) {
	seen := make(map[string]bool, len(threads))
	deduped := threads[:0]
	for _, t := range threads {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		deduped = append(deduped, t)
	}
	s.threads = deduped
	s.pruneDetailsLocked()
}

// pruneDetailsLocked discards detail entries whose thread id is no
// longer present. A stale entry must never be shown against a thread
// that could be a different real-world item.
func (s *Store) pruneDetailsLocked() {
	live := make(map[string]bool, len(s.threads))
	for _, t := range s.threads {
		live[t.ID] = true
	}
	for id := range s.details {
		if !live[id] {
			delete(s.details, id)
		}
	}
}

// Settings returns the current (clamped) settings.
func (s *Store) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetPollInterval updates the poll interval, persists the settings,
// and supersedes the running loop.
func (s *Store) SetPollInterval(seconds int) {
	s.mu.Lock()
	clamped := model.ClampPollInterval(seconds)
	if clamped == s.settings.PollIntervalSec {
		s.mu.Unlock()
		return
	}
	s.settings.PollIntervalSec = clamped
	cfg := s.settings
	s.mu.Unlock()

	s.persistSettings(cfg)
	s.restart("interval changed")
}

// SetPageSize updates the feed page size, persists the settings, and
// supersedes the running loop.
func (s *Store) SetPageSize(size int) {
	s.mu.Lock()
	clamped := model.ClampPageSize(size)
	if clamped == s.settings.PageSize {
		s.mu.Unlock()
		return
	}
	s.settings.PageSize = clamped
	cfg := s.settings
	s.mu.Unlock()

	s.persistSettings(cfg)
	s.restart("page size changed")
}

// ApplySettings applies externally reloaded settings (config file
// watch). Only a real change supersedes the loop.
func (s *Store) ApplySettings(cfg model.Settings) {
	cfg = cfg.Clamped()

	s.mu.Lock()
	changed := cfg.PollIntervalSec != s.settings.PollIntervalSec ||
		cfg.PageSize != s.settings.PageSize
	s.settings.PollIntervalSec = cfg.PollIntervalSec
	s.settings.PageSize = cfg.PageSize
	s.mu.Unlock()

	if changed {
		s.restart("settings reloaded")
	}
}

// SetToken records a new token immediately but debounces the save and
// loop restart so a user typing a credential does not restart the loop
// on every keystroke.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.settings.Token = token
	if s.tokenTimer != nil {
		s.tokenTimer.Stop()
	}
	s.tokenTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		current := s.settings.Token
		s.mu.Unlock()
		if current != token {
			// A newer edit superseded this one.
			return
		}
		if s.saveToken != nil {
			if err := s.saveToken(token); err != nil {
				s.log.Warn().Err(err).Msg("saving token failed")
			}
		}
		s.restart("token changed")
	})
	s.mu.Unlock()
}

func (s *Store) persistSettings(cfg model.Settings) {
	if s.persist == nil {
		return
	}
	if err := s.persist(cfg); err != nil {
		s.log.Warn().Err(err).Msg("persisting settings failed")
	}
}

// VerifyToken checks a candidate token against the API and returns the
// authenticated login. The running loop is untouched.
func (s *Store) VerifyToken(ctx context.Context, token string) (string, error) {
	return s.newFetcher(token).Viewer(ctx)
}

// MarkThreadRead marks a thread as read upstream and, on success,
// replaces the local entry with its read counterpart.
func (s *Store) MarkThreadRead(id string) {
	s.mu.Lock()
	fetcher := s.fetcher
	s.mu.Unlock()
	if fetcher == nil {
		return
	}

	go func() {
		if err := fetcher.MarkThreadRead(s.baseCtx, id); err != nil {
			s.log.Warn().Err(err).Str("thread", id).Msg("mark read failed")
			return
		}

		s.mu.Lock()
		for i, t := range s.threads {
			if t.ID == id {
				read := t
				read.Unread = false
				read.LastReadAt = time.Now()
				s.threads[i] = read
				break
			}
		}
		s.publishLocked()
		s.mu.Unlock()
	}()
}

// Stop cancels the poll loop and every outstanding task. The store is
// not reusable afterwards.
func (s *Store) Stop() {
	s.mu.Lock()
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
	if s.tokenTimer != nil {
		s.tokenTimer.Stop()
		s.tokenTimer = nil
	}
	s.pollGen++
	s.enrichGen++
	s.polling = false
	s.mu.Unlock()

	s.baseCancel()
	s.log.Info().Msg("engine stopped")
}

// OpenTarget resolves the browser-facing URL for a thread: the
// enriched subject URL when known, else a best-effort mapping of the
// thread's API locator to its web form.
func (s *Store) OpenTarget(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.details[id]; ok && d.WebURL != "" {
		return d.WebURL
	}
	for _, t := range s.threads {
		if t.ID == id {
			return webURLForThread(t)
		}
	}
	return ""
}
