package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrItemNotFound       = fmt.Errorf("item %w", ErrNotFound)
	ErrColumnNotFound     = fmt.Errorf("column %w", ErrNotFound)
	ErrInvalidDestination = errors.New("destination is neither a column nor a folder")
	ErrCyclicMove         = errors.New("cannot move a folder into itself or one of its descendants")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrNotBookmark        = errors.New("item is not a bookmark")
	ErrNotFolder          = errors.New("item is not a folder")
	ErrDuplicateID        = errors.New("duplicate id")
)
