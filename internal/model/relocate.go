package model

import (
	"fmt"
	"slices"
)

// MoveRequest describes a single relocation gesture: put ItemID into the
// column or folder DestinationID at Index.
type MoveRequest struct {
	ItemID        string
	DestinationID string
	Index         int
}

// MoveResult reports where the item came from and where it ended up.
// Changed is false when the item landed exactly where it was.
type MoveResult struct {
	From    Location
	To      Location
	Changed bool
}

// Move relocates an item with its whole subtree. Index is the final position
// of the item in the destination sequence, clamped to the valid range.
//
// The tree is left untouched on error: ErrItemNotFound for a stale item,
// ErrInvalidDestination when the destination is neither a column nor a
// folder, and ErrCyclicMove when the destination is the item itself or lies
// inside it.
func (s *Store) Move(req MoveRequest) (MoveResult, error) {
	return s.relocate(req, false)
}

// MoveToSlot relocates an item to a drop slot of the destination sequence as
// it was displayed before the gesture: slot k sits before the row at index k,
// slot len(sequence) appends. Within the same container a slot below the
// item's current position is shifted by one, since detaching the item moves
// every later row up.
func (s *Store) MoveToSlot(req MoveRequest) (MoveResult, error) {
	return s.relocate(req, true)
}

func (s *Store) relocate(req MoveRequest, slot bool) (MoveResult, error) {
	from, ok := s.Locate(req.ItemID)
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrItemNotFound, req.ItemID)
	}
	if _, err := s.container(req.DestinationID); err != nil {
		return MoveResult{}, err
	}

	item, _ := s.FindByID(req.ItemID)
	if req.DestinationID == item.ID || item.contains(req.DestinationID) {
		return MoveResult{}, fmt.Errorf("%w: %s into %s", ErrCyclicMove, req.ItemID, req.DestinationID)
	}

	index := req.Index
	if slot && from.ContainerID == req.DestinationID && from.Index < index {
		index--
	}

	detached, _ := s.RemoveByID(req.ItemID)

	// Detaching can shift the destination folder inside its parent slice,
	// so resolve it again.
	dest, err := s.container(req.DestinationID)
	if err != nil {
		return MoveResult{}, err
	}
	index = clampIndex(index, len(*dest))

	to := Location{ContainerID: req.DestinationID, Index: index}
	changed := to != from
	if changed {
		detached.UpdatedAt = s.now()
	}
	*dest = slices.Insert(*dest, index, detached)

	return MoveResult{From: from, To: to, Changed: changed}, nil
}

// MoveColumn moves a column within the display order to the given final
// position.
func (s *Store) MoveColumn(id string, index int) error {
	from := slices.Index(s.ColumnOrder, id)
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	order := slices.Delete(slices.Clone(s.ColumnOrder), from, from+1)
	index = clampIndex(index, len(order))
	return s.ReorderColumns(slices.Insert(order, index, id))
}
