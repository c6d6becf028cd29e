package session

import (
	"context"
	"errors"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

// errNoop marks a mutation that found nothing to change and must not persist.
var errNoop = errors.New("no-op")

func isPersistence(err error) bool {
	return errors.Is(err, storage.ErrPersistence)
}

func guessIcon(rawURL string) string {
	return icon.Guess(rawURL)
}

// enrichLocked starts a background icon lookup for the item. Each lookup
// carries a generation; only the latest one for an item may apply.
func (s *Session) enrichLocked(id, rawURL string) {
	if s.icons == nil {
		return
	}
	s.cancelEnrichmentLocked(id)

	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(s.ctx)
	s.pending[id] = &enrichment{gen: gen, cancel: cancel}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		found := s.icons.Resolve(ctx, rawURL)
		if s.applyIcon(id, gen, found) && s.notify != nil {
			s.notify()
		}
	}()
}

func (s *Session) cancelEnrichmentLocked(id string) {
	if p, ok := s.pending[id]; ok {
		p.cancel()
		delete(s.pending, id)
	}
}

// applyIcon stores a finished lookup unless it was superseded. It reports
// whether the store changed.
func (s *Session) applyIcon(id string, gen uint64, found string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[id]
	if !ok || p.gen != gen {
		s.logger.Debug("icon lookup superseded", "item", id)
		return false
	}
	delete(s.pending, id)

	item, ok := s.store.FindByID(id)
	if !ok || !item.IsBookmark() || found == "" || item.Icon == found {
		return false
	}

	err := s.mutateLocked("apply icon", func(st *model.Store) error {
		return st.UpdateByID(id, model.ItemPatch{Icon: &found})
	})
	if err != nil && !isPersistence(err) {
		return false
	}
	return true
}

// Pending reports how many icon lookups are in flight.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
