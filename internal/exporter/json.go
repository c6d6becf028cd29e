package exporter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"github.com/nikbrunner/shelf/internal/model"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ExportJSON returns the pretty-printed document, in the same shape the
// JSON importer reads back.
func ExportJSON(store *model.Store) ([]byte, error) {
	return model.Encode(store)
}

// Export encodes the store in the given format.
func Export(store *model.Store, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportJSON(store)
	case FormatHTML:
		return []byte(ExportHTML(store)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// DefaultExportFilename returns bookmarks_YYYY-MM-DD.<format> for the given day.
func DefaultExportFilename(now time.Time, format Format) string {
	return fmt.Sprintf("bookmarks_%s.%s", now.Format("2006-01-02"), format)
}

// DefaultExportPath returns the default export file path in ~/Downloads.
func DefaultExportPath(format Format) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads", DefaultExportFilename(time.Now(), format)), nil
}

// WriteFile exports the store to path, replacing any existing file atomically.
func WriteFile(path string, store *model.Store, format Format) error {
	data, err := Export(store, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
