package engine

import (
	"github.com/nhle/ghnotify/internal/github"
	"github.com/nhle/ghnotify/internal/model"
)

// LoadMore fetches the next feed page and merges it into the list.
// It is a silent no-op when a load is already in flight, when no
// further pages are known, or when no loop has ever produced a
// fetcher. The cursor and poll generation captured at start are
// re-checked before the result is applied, guarding against a poll
// cycle resetting pagination underneath the fetch.
func (s *Store) LoadMore() {
	s.mu.Lock()
	if s.loadingMore || s.nextPage == 0 || s.fetcher == nil {
		s.mu.Unlock()
		return
	}
	page := s.nextPage
	gen := s.pollGen
	fetcher := s.fetcher
	perPage := s.settings.PageSize
	s.loadingMore = true
	s.loadMoreMsg = ""
	s.publishLocked()
	s.mu.Unlock()

	s.log.Debug().Int("page", page).Msg("loading more")

	go func() {
		result, err := fetcher.FetchPage(s.baseCtx, page, perPage)
		s.applyLoadMore(gen, page, result, err)
	}()
}

func (s *Store) applyLoadMore(gen uint64, page int, result github.PageResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadingMore = false

	if err != nil {
		s.loadMoreMsg = err.Error()
		s.log.Warn().Err(err).Int("page", page).Msg("load more failed")
		s.publishLocked()
		return
	}

	if gen != s.pollGen || s.nextPage != page {
		// Pagination was reset while this fetch was in flight; its
		// effect on the list and cursor is discarded. The generation
		// check catches a reset that landed back on the same page
		// number.
		s.log.Debug().Int("page", page).Msg("discarding stale load-more result")
		s.publishLocked()
		return
	}

	s.threads = mergeThreads(s.threads, result.Threads)
	if result.HasNext {
		s.nextPage = page + 1
	} else {
		s.nextPage = 0
	}
	s.pruneDetailsLocked()
	s.publishLocked()

	s.log.Debug().
		Int("page", page).
		Int("threads", len(s.threads)).
		Bool("has_next", result.HasNext).
		Msg("load more applied")
}

// mergeThreads appends fetched entries whose id is not already in the
// list. Existing entries keep their position; new entries append in
// fetched order. Merging the same page twice is a no-op.
func mergeThreads(existing, fetched []model.Thread) []model.Thread {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.ID] = true
	}
	for _, t := range fetched {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		existing = append(existing, t)
	}
	return existing
}
