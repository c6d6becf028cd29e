package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nikbrunner/shelf/internal/model"
)

// shortIDLen is how many ID characters ls prints. Any unique prefix is
// accepted wherever an ID is expected.
const shortIDLen = 8

var errAmbiguousID = errors.New("ambiguous id")

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// resolveItem finds an item by ID or unique ID prefix.
func resolveItem(store *model.Store, ref string) (*model.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty id", model.ErrItemNotFound)
	}
	if item, ok := store.FindByID(ref); ok {
		return item, nil
	}

	var matches []*model.Item
	store.Walk(func(item *model.Item, _ int) bool {
		if strings.HasPrefix(item.ID, ref) {
			matches = append(matches, item)
		}
		return true
	})
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", model.ErrItemNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s matches %d items", errAmbiguousID, ref, len(matches))
	}
}

// resolveColumn finds a column by 1-based display position, ID or unique ID
// prefix. It returns the column and its display index.
func resolveColumn(store *model.Store, ref string) (*model.Column, int, error) {
	ref = strings.TrimSpace(ref)
	columns := store.OrderedColumns()

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(columns) {
			return nil, 0, fmt.Errorf("%w: no column %d (have %d)", model.ErrColumnNotFound, n, len(columns))
		}
		return columns[n-1], n - 1, nil
	}

	found, index := (*model.Column)(nil), -1
	for i, c := range columns {
		if c.ID == ref {
			return c, i, nil
		}
		if ref != "" && strings.HasPrefix(c.ID, ref) {
			if found != nil {
				return nil, 0, fmt.Errorf("%w: %s matches several columns", errAmbiguousID, ref)
			}
			found, index = c, i
		}
	}
	if found == nil {
		return nil, 0, fmt.Errorf("%w: %s", model.ErrColumnNotFound, ref)
	}
	return found, index, nil
}

// resolveContainer finds a column or folder. An empty ref is the first column.
func resolveContainer(store *model.Store, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		columns := store.OrderedColumns()
		if len(columns) == 0 {
			return "", fmt.Errorf("%w: no columns", model.ErrColumnNotFound)
		}
		return columns[0].ID, nil
	}

	if c, _, err := resolveColumn(store, ref); err == nil {
		return c.ID, nil
	} else if errors.Is(err, errAmbiguousID) {
		return "", err
	}

	item, err := resolveItem(store, ref)
	if err != nil {
		return "", err
	}
	if !item.IsFolder() {
		return "", fmt.Errorf("%w: %s", model.ErrNotFolder, item.Title)
	}
	return item.ID, nil
}
