package engine

import (
	"sync"

	"github.com/nhle/ghnotify/internal/model"
)

// PrefetchDetails fetches subject details for every thread that has a
// lookup URL and no cached entry yet. At most enrichWorkers fetches
// are in flight at once; as soon as one completes the next queued
// target is dispatched. Starting a new prefetch supersedes any batch
// still in flight: its pending completions are dropped before they can
// touch the detail map. A no-op when the token is empty or there is
// nothing to fetch.
func (s *Store) PrefetchDetails() {
	s.mu.Lock()
	if s.settings.Token == "" || s.fetcher == nil {
		s.mu.Unlock()
		return
	}

	var targets []model.Thread
	for _, t := range s.threads {
		if t.SubjectURL == "" {
			continue
		}
		if _, ok := s.details[t.ID]; ok {
			continue
		}
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		s.mu.Unlock()
		return
	}

	s.enrichGen++
	gen := s.enrichGen
	fetcher := s.fetcher
	s.mu.Unlock()

	s.log.Debug().Int("targets", len(targets)).Msg("prefetching subject details")

	go s.runPrefetch(gen, fetcher, targets)
}

// runPrefetch is a sliding-window scheduler: a semaphore bounds the
// in-flight set and each freed slot immediately admits the next target.
func (s *Store) runPrefetch(gen uint64, fetcher Fetcher, targets []model.Thread) {
	sem := make(chan struct{}, enrichWorkers)
	var wg sync.WaitGroup

	for _, target := range targets {
		if s.baseCtx.Err() != nil || s.enrichGeneration() != gen {
			break
		}

		select {
		case sem <- struct{}{}:
		case <-s.baseCtx.Done():
			wg.Wait()
			return
		}

		wg.Add(1)
		go func(t model.Thread) {
			defer wg.Done()
			defer func() { <-sem }()

			details, err := fetcher.FetchSubject(s.baseCtx, t.SubjectURL)
			if err != nil {
				// A single target's failure is local: no entry, no
				// retries, no effect on the rest of the batch.
				s.log.Debug().Err(err).Str("thread", t.ID).Msg("subject fetch skipped")
				return
			}
			s.applyDetails(gen, t.ID, *details)
		}(target)
	}

	wg.Wait()
}

func (s *Store) enrichGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enrichGen
}

// applyDetails records one enrichment result, unless the batch was
// superseded or the thread left the list while the fetch was in
// flight.
func (s *Store) applyDetails(gen uint64, id string, details model.SubjectDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.enrichGen {
		return
	}
	for _, t := range s.threads {
		if t.ID == id {
			s.details[id] = details
			s.publishLocked()
			return
		}
	}
}
