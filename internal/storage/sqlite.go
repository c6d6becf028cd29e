package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/shelf/internal/model"
)

const currentSchemaVersion = 2

// SQLiteStorage implements Storage using a SQLite database.
// The tree is stored as rows with a parent reference and a position; Save
// replaces the whole document inside one transaction.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied schema version.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

func (s *SQLiteStorage) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < currentSchemaVersion {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}
	return nil
}

// migrateV1 creates the column and item tables.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS columns (
			id TEXT PRIMARY KEY NOT NULL,
			width INTEGER NOT NULL,
			slice_index INTEGER NOT NULL,
			order_index INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY NOT NULL,
			column_id TEXT NOT NULL,
			parent_id TEXT,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			is_favorite INTEGER NOT NULL DEFAULT 0,
			color TEXT NOT NULL DEFAULT '',
			collapsed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (column_id) REFERENCES columns(id) ON DELETE CASCADE,
			FOREIGN KEY (parent_id) REFERENCES items(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_items_column_id ON items(column_id);
		CREATE INDEX IF NOT EXISTS idx_items_parent_id ON items(parent_id);
		CREATE INDEX IF NOT EXISTS idx_items_favorite ON items(is_favorite) WHERE is_favorite = 1;

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds the favorites order and the settings bag.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		CREATE TABLE IF NOT EXISTS favorites (
			item_id TEXT PRIMARY KEY NOT NULL,
			position INTEGER NOT NULL,
			FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);

		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

type itemRow struct {
	item     model.Item
	columnID string
	parentID sql.NullString
}

// Load reads the document from the database.
func (s *SQLiteStorage) Load() (*model.Store, error) {
	store := model.NewStore()

	columns, order, err := s.loadColumns()
	if err != nil {
		return nil, err
	}

	rows, err := s.loadItems()
	if err != nil {
		return nil, err
	}

	// Group rows by container; rows arrive sorted by position.
	byParent := make(map[string][]itemRow)
	for _, r := range rows {
		key := r.columnID
		if r.parentID.Valid {
			key = r.parentID.String
		}
		byParent[key] = append(byParent[key], r)
	}

	var build func(containerID string) []model.Item
	build = func(containerID string) []model.Item {
		children := byParent[containerID]
		items := make([]model.Item, 0, len(children))
		for _, r := range children {
			item := r.item
			if item.IsFolder() {
				item.Children = build(item.ID)
			}
			items = append(items, item)
		}
		return items
	}

	for i := range columns {
		columns[i].Items = build(columns[i].ID)
	}
	store.Columns = columns
	store.ColumnOrder = order

	favorites, err := s.loadFavorites()
	if err != nil {
		return nil, err
	}
	store.FavoritesOrder = favorites

	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}
	store.AppSettings = settings

	store.Normalize()
	return store, nil
}

func (s *SQLiteStorage) loadColumns() ([]model.Column, []string, error) {
	rows, err := s.db.Query(`
		SELECT id, width, order_index, created_at, updated_at
		FROM columns
		ORDER BY slice_index
	`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns := []model.Column{}
	orderIndex := map[string]int{}
	for rows.Next() {
		var c model.Column
		var width, order int
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &width, &order, &createdAt, &updatedAt); err != nil {
			return nil, nil, err
		}
		c.Width = model.Width(width)
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		columns = append(columns, c)
		orderIndex[c.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	order := make([]string, len(columns))
	for _, c := range columns {
		if idx := orderIndex[c.ID]; idx >= 0 && idx < len(order) && order[idx] == "" {
			order[idx] = c.ID
		}
	}
	// Holes are repaired by Normalize.
	compact := order[:0]
	for _, id := range order {
		if id != "" {
			compact = append(compact, id)
		}
	}
	return columns, compact, nil
}

func (s *SQLiteStorage) loadItems() ([]itemRow, error) {
	rows, err := s.db.Query(`
		SELECT id, column_id, parent_id, type, title, url, icon, is_favorite,
		       color, collapsed, created_at, updated_at
		FROM items
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []itemRow
	for rows.Next() {
		var r itemRow
		var typ, createdAt, updatedAt string
		var favorite, collapsed int
		if err := rows.Scan(
			&r.item.ID, &r.columnID, &r.parentID, &typ, &r.item.Title, &r.item.URL, &r.item.Icon,
			&favorite, &r.item.Color, &collapsed, &createdAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		r.item.Type = model.ItemType(typ)
		r.item.IsFavorite = favorite == 1
		r.item.Collapsed = collapsed == 1
		r.item.CreatedAt = parseTime(createdAt)
		r.item.UpdatedAt = parseTime(updatedAt)
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *SQLiteStorage) loadFavorites() ([]string, error) {
	rows, err := s.db.Query("SELECT item_id FROM favorites ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		favorites = append(favorites, id)
	}
	return favorites, rows.Err()
}

func (s *SQLiteStorage) loadSettings() (map[string]any, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := map[string]any{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			continue
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// Save writes the document to the database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(store *model.Store) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"favorites", "items", "columns", "settings"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	columnStmt, err := tx.Prepare(`
		INSERT INTO columns (id, width, slice_index, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer columnStmt.Close()

	orderIndex := make(map[string]int, len(store.ColumnOrder))
	for i, id := range store.ColumnOrder {
		orderIndex[id] = i
	}
	for i, c := range store.Columns {
		order, ok := orderIndex[c.ID]
		if !ok {
			order = -1
		}
		if _, err := columnStmt.Exec(
			c.ID, int(c.Width), i, order, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		); err != nil {
			return err
		}
	}

	itemStmt, err := tx.Prepare(`
		INSERT INTO items (id, column_id, parent_id, position, type, title, url, icon,
		                   is_favorite, color, collapsed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	// Parents are inserted before their children so foreign keys hold.
	var insert func(items []model.Item, columnID string, parentID *string) error
	insert = func(items []model.Item, columnID string, parentID *string) error {
		for pos, item := range items {
			if _, err := itemStmt.Exec(
				item.ID, columnID, parentID, pos, string(item.Type), item.Title, item.URL, item.Icon,
				boolToInt(item.IsFavorite), item.Color, boolToInt(item.Collapsed),
				formatTime(item.CreatedAt), formatTime(item.UpdatedAt),
			); err != nil {
				return err
			}
			if len(item.Children) > 0 {
				if err := insert(item.Children, columnID, &item.ID); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, c := range store.Columns {
		if err := insert(c.Items, c.ID, nil); err != nil {
			return err
		}
	}

	for pos, id := range store.FavoritesOrder {
		if _, err := tx.Exec("INSERT INTO favorites (item_id, position) VALUES (?, ?)", id, pos); err != nil {
			return err
		}
	}

	for key, value := range store.AppSettings {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", key, string(raw)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
