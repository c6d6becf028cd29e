// Package session hosts the single bookmark Store: it serializes mutations,
// persists a full snapshot after each one, and applies icon lookups that
// finish in the background.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nikbrunner/shelf/internal/importer"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

// IconResolver looks up an icon for a URL. It must not fail; on error it
// returns its best guess.
type IconResolver interface {
	Resolve(ctx context.Context, rawURL string) string
}

// Params configures a Session.
type Params struct {
	Storage storage.Storage
	Logger  *slog.Logger
	// Icons enables background icon lookups for new bookmarks. Nil disables them.
	Icons IconResolver
	// OnChange is called, without the lock held, after a background update
	// changed the store.
	OnChange func()
}

// Session owns the Store. All methods are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	store   *model.Store
	storage storage.Storage
	logger  *slog.Logger
	icons   IconResolver
	notify  func()

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	gen     uint64
	pending map[string]*enrichment
}

type enrichment struct {
	gen    uint64
	cancel context.CancelFunc
}

// Open loads the document from storage. An empty document gets one default
// column so there is always somewhere to add items.
func Open(params Params) (*Session, error) {
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := params.Storage.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", storage.ErrPersistence, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		store:   store,
		storage: params.Storage,
		logger:  logger,
		icons:   params.Icons,
		notify:  params.OnChange,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]*enrichment),
	}

	if len(store.Columns) == 0 {
		id := store.AddColumn(model.DefaultColumnWidth)
		logger.Debug("created default column", "column", id)
		if err := s.storage.Save(store); err != nil {
			logger.Error("save default column", "error", err)
		}
	}
	return s, nil
}

// Close cancels pending icon lookups and waits for them to return.
func (s *Session) Close() error {
	s.cancel()
	s.wg.Wait()
	return storage.Close(s.storage)
}

// Wait blocks until every pending icon lookup has been applied or dropped.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Snapshot returns a deep copy of the current store for rendering.
func (s *Session) Snapshot() *model.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clone()
}

// mutate runs fn under the lock and persists the store when fn succeeds.
// A failed save is reported as ErrPersistence; the in-memory change stays.
func (s *Session) mutate(op string, fn func(st *model.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(op, fn)
}

func (s *Session) mutateLocked(op string, fn func(st *model.Store) error) error {
	if err := fn(s.store); err != nil {
		s.logger.Debug("mutation rejected", "op", op, "error", err)
		return err
	}
	s.logger.Debug("mutation applied", "op", op)
	return s.persistLocked(op)
}

func (s *Session) persistLocked(op string) error {
	if err := s.storage.Save(s.store); err != nil {
		s.logger.Error("persist failed", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %w", storage.ErrPersistence, op, err)
	}
	return nil
}

// AddBookmark creates a bookmark in the column or folder destinationID at
// index. Without an explicit icon it starts with the URL classifier's guess
// and, when icon lookups are enabled, gets a fetched icon later.
func (s *Session) AddBookmark(destinationID string, index int, params model.NewBookmarkParams) (model.Item, error) {
	explicitIcon := params.Icon != ""
	if !explicitIcon {
		params.Icon = guessIcon(params.URL)
	}
	item := model.NewBookmark(params)

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutateLocked("add bookmark", func(st *model.Store) error {
		return st.Insert(item, destinationID, index)
	})
	if err != nil && !isPersistence(err) {
		return model.Item{}, err
	}
	if !explicitIcon && item.URL != "" {
		s.enrichLocked(item.ID, item.URL)
	}
	return item, err
}

// AddFolder creates an empty folder in destinationID at index.
func (s *Session) AddFolder(destinationID string, index int, params model.NewFolderParams) (model.Item, error) {
	item := model.NewFolder(params)
	err := s.mutate("add folder", func(st *model.Store) error {
		return st.Insert(item, destinationID, index)
	})
	if err != nil && !isPersistence(err) {
		return model.Item{}, err
	}
	return item, err
}

// Update merges the patch into the item. Any pending icon lookup for the
// item is superseded; a new URL without an explicit icon starts a new one.
func (s *Session) Update(id string, patch model.ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutateLocked("update", func(st *model.Store) error {
		return st.UpdateByID(id, patch)
	})
	if err != nil && !isPersistence(err) {
		return err
	}

	s.cancelEnrichmentLocked(id)
	if patch.URL != nil && patch.Icon == nil && *patch.URL != "" {
		s.enrichLocked(id, *patch.URL)
	}
	return err
}

// Delete removes the item and its subtree. Deleting an unknown ID is a
// no-op and reports false.
func (s *Session) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed model.Item
	var found bool
	err := s.mutateLocked("delete", func(st *model.Store) error {
		removed, found = st.DeleteSubtree(id)
		if !found {
			return errNoop
		}
		return nil
	})
	if err == errNoop {
		return false, nil
	}
	for _, rid := range subtreeIDs(removed) {
		s.cancelEnrichmentLocked(rid)
	}
	return true, err
}

// Move relocates an item to a final index in the destination.
func (s *Session) Move(req model.MoveRequest) (model.MoveResult, error) {
	return s.relocate("move", req, (*model.Store).Move)
}

// MoveToSlot relocates an item to a drop slot in the destination.
func (s *Session) MoveToSlot(req model.MoveRequest) (model.MoveResult, error) {
	return s.relocate("move to slot", req, (*model.Store).MoveToSlot)
}

func (s *Session) relocate(op string, req model.MoveRequest, move func(*model.Store, model.MoveRequest) (model.MoveResult, error)) (model.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := move(s.store, req)
	if err != nil {
		s.logger.Debug("mutation rejected", "op", op, "item", req.ItemID, "error", err)
		return res, err
	}
	if !res.Changed {
		return res, nil
	}
	s.logger.Debug("mutation applied", "op", op, "item", req.ItemID,
		"from", res.From.ContainerID, "to", res.To.ContainerID, "index", res.To.Index)
	return res, s.persistLocked(op)
}

// ToggleFavorite flips a bookmark's favorite flag.
func (s *Session) ToggleFavorite(id string) error {
	return s.mutate("toggle favorite", func(st *model.Store) error {
		return st.ToggleFavorite(id)
	})
}

// ToggleFolderCollapsed flips a folder's collapsed flag.
func (s *Session) ToggleFolderCollapsed(id string) error {
	return s.mutate("toggle collapsed", func(st *model.Store) error {
		return st.ToggleFolderCollapsed(id)
	})
}

// ReorderFavorites replaces the favorites order with a permutation of it.
func (s *Session) ReorderFavorites(order []string) error {
	return s.mutate("reorder favorites", func(st *model.Store) error {
		return st.ReorderFavorites(order)
	})
}

// AddColumn appends an empty column and returns its ID.
func (s *Session) AddColumn(width model.Width) (string, error) {
	var id string
	err := s.mutate("add column", func(st *model.Store) error {
		id = st.AddColumn(width)
		return nil
	})
	return id, err
}

// DeleteColumn removes a column and everything in it.
func (s *Session) DeleteColumn(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed model.Column
	var found bool
	err := s.mutateLocked("delete column", func(st *model.Store) error {
		removed, found = st.DeleteColumn(id)
		if !found {
			return errNoop
		}
		return nil
	})
	if err == errNoop {
		return false, nil
	}
	for _, item := range removed.Items {
		for _, rid := range subtreeIDs(item) {
			s.cancelEnrichmentLocked(rid)
		}
	}
	return true, err
}

// ResizeColumn sets a column's width, clamped to the allowed range.
func (s *Session) ResizeColumn(id string, width model.Width) (model.Width, error) {
	var got model.Width
	err := s.mutate("resize column", func(st *model.Store) error {
		var err error
		got, err = st.ResizeColumn(id, width)
		return err
	})
	return got, err
}

// ReorderColumns replaces the column display order.
func (s *Session) ReorderColumns(order []string) error {
	return s.mutate("reorder columns", func(st *model.Store) error {
		return st.ReorderColumns(order)
	})
}

// MoveColumn moves a column to a final position in the display order.
func (s *Session) MoveColumn(id string, index int) error {
	return s.mutate("move column", func(st *model.Store) error {
		return st.MoveColumn(id, index)
	})
}

// ImportHTML parses browser bookmark HTML and appends it as a new column.
func (s *Session) ImportHTML(r io.Reader) (model.Column, error) {
	col, err := importer.ParseHTML(r)
	if err != nil {
		return model.Column{}, err
	}
	err = s.mutate("import html", func(st *model.Store) error {
		return st.AppendColumn(col)
	})
	if err != nil && !isPersistence(err) {
		return model.Column{}, err
	}
	return col, err
}

// ImportJSON parses an exported document and replaces the whole store with
// it. Malformed input leaves the current store untouched.
func (s *Session) ImportJSON(r io.Reader) error {
	next, err := importer.ParseJSON(r)
	if err != nil {
		return err
	}
	return s.Replace(next)
}

// Replace swaps in a new store and drops every pending icon lookup.
func (s *Session) Replace(next *model.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.pending {
		s.cancelEnrichmentLocked(id)
	}
	next.Clock = s.store.Clock
	s.store = next
	s.logger.Debug("mutation applied", "op", "replace")
	return s.persistLocked("replace")
}

// Save persists the current store without changing it.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked("save")
}

func subtreeIDs(item model.Item) []string {
	ids := []string{item.ID}
	for _, child := range item.Children {
		ids = append(ids, subtreeIDs(child)...)
	}
	return ids
}
