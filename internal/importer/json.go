package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nikbrunner/shelf/internal/model"
)

// ErrMalformedImport is returned when an import file cannot be parsed into a
// valid document.
var ErrMalformedImport = errors.New("malformed import")

// ParseJSON reads an exported document. The input must carry both columns
// and columnOrder; item IDs must be unique. The result replaces the whole
// store, so nothing is applied unless parsing fully succeeds.
func ParseJSON(r io.Reader) (*model.Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var shape struct {
		Columns     json.RawMessage `json:"columns"`
		ColumnOrder json.RawMessage `json:"columnOrder"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}
	if isNull(shape.Columns) || isNull(shape.ColumnOrder) {
		return nil, fmt.Errorf("%w: missing columns or columnOrder", ErrMalformedImport)
	}

	store, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}
	if err := store.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}
	return store, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
