package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column width bounds in pixels.
const (
	DefaultColumnWidth  Width = 300
	ImportedColumnWidth Width = 350
	MinColumnWidth      Width = 200
	MaxColumnWidth      Width = 600
)

// Width is a column width in pixels.
// It is stored as a CSS length ("300px") to stay compatible with exported documents.
type Width int

func (w Width) String() string {
	return fmt.Sprintf("%dpx", int(w))
}

// MarshalJSON encodes the width as "<n>px".
func (w Width) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

// UnmarshalJSON accepts "300px", "300" or a bare number.
func (w *Width) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*w = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*w = Width(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("width: %w", err)
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if s == "" {
		*w = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("width %q: %w", s, err)
	}
	*w = Width(v)
	return nil
}

// Clamp bounds the width to the resizable range.
func (w Width) Clamp() Width {
	return min(max(w, MinColumnWidth), MaxColumnWidth)
}

// Column is a top-level ordered container of items.
type Column struct {
	ID        string    `json:"id"`
	Width     Width     `json:"width"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Items     []Item    `json:"items"`
}

// NewColumn creates an empty column with a generated ID.
// A non-positive width falls back to DefaultColumnWidth.
func NewColumn(width Width) Column {
	if width <= 0 {
		width = DefaultColumnWidth
	}

	now := time.Now()
	return Column{
		ID:        GenerateID(),
		Width:     width,
		CreatedAt: now,
		UpdatedAt: now,
		Items:     []Item{},
	}
}
