package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/ghnotify/internal/github"
	"github.com/nhle/ghnotify/internal/model"
)

// User-facing messages for poll loop entry guards.
const (
	msgTokenMissing     = "Set GitHub token in settings first!"
	msgIntervalTooShort = "Poll interval too short."
)

// Start begins polling with the current settings. Calling it while a
// loop is running supersedes that loop.
func (s *Store) Start() {
	s.restart("start")
}

// ForceRetry supersedes the current loop (running or stopped) and
// starts a fresh one, clearing the failure count.
func (s *Store) ForceRetry() {
	s.restart("force retry")
}

// restart supersedes any in-flight loop and, if the entry guards pass,
// launches a new generation-tagged one. Any configuration change ends
// up here, which also invalidates the pagination cursor.
func (s *Store) restart(reason string) {
	s.mu.Lock()

	s.pollGen++
	gen := s.pollGen
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
	s.nextPage = 0
	s.failures = 0
	cfg := s.settings

	if cfg.PollIntervalSec < 1 {
		s.polling = false
		s.message = msgIntervalTooShort
		s.publishLocked()
		s.mu.Unlock()
		s.log.Warn().Int("interval_sec", cfg.PollIntervalSec).Msg("poll loop not started")
		return
	}
	if cfg.Token == "" {
		s.polling = false
		s.message = msgTokenMissing
		s.publishLocked()
		s.mu.Unlock()
		s.log.Warn().Msg("poll loop not started: token missing")
		return
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	s.pollCancel = cancel
	s.fetcher = s.newFetcher(cfg.Token)
	fetcher := s.fetcher
	s.polling = true
	s.message = ""
	s.publishLocked()
	s.mu.Unlock()

	s.log.Info().
		Str("reason", reason).
		Int("interval_sec", cfg.PollIntervalSec).
		Int("page_size", cfg.PageSize).
		Msg("poll loop starting")

	go s.pollLoop(ctx, gen, fetcher, cfg)
}

// pollLoop is the body of one loop generation: fetch page 1, apply,
// sleep, repeat. Iterations are strictly sequential; the generation
// check in applyPoll guarantees a superseded loop's results are
// discarded rather than applied late.
func (s *Store) pollLoop(ctx context.Context, gen uint64, fetcher Fetcher, cfg model.Settings) {
	for {
		if ctx.Err() != nil {
			return
		}

		cycle := uuid.NewString()
		page, err := fetcher.FetchPage(ctx, 1, cfg.PageSize)
		if s.applyPoll(gen, page, err, cycle) {
			return
		}

		if !s.sleep(ctx, cfg.PollInterval()) {
			return
		}
	}
}

// applyPoll merges one poll result into the store. Returns true when
// the loop must terminate (superseded or failure threshold reached).
func (s *Store) applyPoll(gen uint64, page github.PageResult, err error, cycle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.pollGen {
		s.log.Debug().Str("cycle", cycle).Msg("discarding poll result from superseded loop")
		return true
	}

	s.lastPoll = now()

	if err != nil {
		s.failures++
		s.log.Warn().
			Err(err).
			Str("cycle", cycle).
			Int("consecutive_failures", s.failures).
			Msg("poll fetch failed")

		if s.failures >= maxConsecutiveFailures {
			s.polling = false
			s.message = fmt.Sprintf("Polling stopped after %d failures: %v", s.failures, err)
			s.publishLocked()
			s.log.Error().Str("cycle", cycle).Msg("poll loop stopped")
			return true
		}

		s.message = err.Error()
		s.publishLocked()
		return false
	}

	s.failures = 0
	s.message = ""
	s.setThreadsLocked(page.Threads)
	if page.HasNext {
		s.nextPage = 2
	} else {
		s.nextPage = 0
	}
	s.publishLocked()

	s.log.Debug().
		Str("cycle", cycle).
		Int("threads", len(s.threads)).
		Bool("has_next", page.HasNext).
		Msg("poll cycle applied")
	return false
}
