package schedule

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed storage for schedule items.
//
// Each row is an autoincrement id plus an event_info JSON blob; the blob is
// schema-on-read and every structural guarantee comes from the validator at
// the boundary, not from the storage engine.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at dbPath and ensures the
// schedules table exists.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schedules (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			event_info TEXT    NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns all items in id order. When dateFilter is a non-empty
// YYYY-MM-DD date, only items whose [startDate, endDate] interval contains
// it (inclusive both ends) are returned.
func (s *Store) List(dateFilter string) ([]Item, error) {
	rows, err := s.db.Query(`SELECT id, event_info FROM schedules ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		// YYYY-MM-DD dates compare correctly as strings.
		if dateFilter != "" && (it.StartDate > dateFilter || it.EndDate < dateFilter) {
			continue
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// Get returns a single item by id.
func (s *Store) Get(id int64) (*Item, error) {
	row := s.db.QueryRow(`SELECT id, event_info FROM schedules WHERE id = ?`, id)

	var rowID int64
	var blob string
	if err := row.Scan(&rowID, &blob); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get schedule item: %w", err)
	}
	return decodeItem(rowID, blob)
}

// Create inserts a new item and returns it with the assigned id. The id on
// the input is ignored; the store owns id assignment.
func (s *Store) Create(it Item) (*Item, error) {
	blob, err := encodeItem(it)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(`INSERT INTO schedules (event_info) VALUES (?)`, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to insert schedule item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted ID: %w", err)
	}
	it.ID = id
	return &it, nil
}

// Update replaces the stored fields of the item with the given id.
func (s *Store) Update(id int64, it Item) (*Item, error) {
	blob, err := encodeItem(it)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(`UPDATE schedules SET event_info = ? WHERE id = ?`, blob, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule item: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	it.ID = id
	return &it, nil
}

// Delete removes an item by id.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule item: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}

// Clear deletes every item and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM schedules`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear schedule: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// UpdateAll writes every item (matched by its id) in a single transaction.
// Any missing id rolls the whole batch back; the store is left exactly as it
// was before the call.
func (s *Store) UpdateAll(items []Item) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		blob, err := encodeItem(it)
		if err != nil {
			return err
		}
		result, err := tx.Exec(`UPDATE schedules SET event_info = ? WHERE id = ?`, blob, it.ID)
		if err != nil {
			return fmt.Errorf("failed to update schedule item: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("id %d: %w", it.ID, ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit updates: %w", err)
	}
	return nil
}

// ReplaceAll atomically swaps the entire schedule for the given items and
// returns them with their newly assigned ids. Input ids are ignored.
func (s *Store) ReplaceAll(items []Item) ([]Item, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM schedules`); err != nil {
		return nil, fmt.Errorf("failed to clear schedule: %w", err)
	}

	created := make([]Item, 0, len(items))
	for _, it := range items {
		blob, err := encodeItem(it)
		if err != nil {
			return nil, err
		}
		result, err := tx.Exec(`INSERT INTO schedules (event_info) VALUES (?)`, blob)
		if err != nil {
			return nil, fmt.Errorf("failed to insert schedule item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get inserted ID: %w", err)
		}
		it.ID = id
		created = append(created, it)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit replacement: %w", err)
	}
	return created, nil
}

// encodeItem marshals the event_info blob. The id lives in its own column
// and is never duplicated into the blob.
func encodeItem(it Item) (string, error) {
	blob, err := json.Marshal(struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Type        string `json:"type"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Start       string `json:"start"`
		End         string `json:"end"`
		Locked      bool   `json:"locked"`
		Urgency     string `json:"urgency"`
	}{
		Title:       it.Title,
		Description: it.Description,
		Type:        it.Type,
		StartDate:   it.StartDate,
		EndDate:     it.EndDate,
		Start:       it.Start,
		End:         it.End,
		Locked:      it.Locked,
		Urgency:     it.Urgency,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode event info: %w", err)
	}
	return string(blob), nil
}

func decodeItem(id int64, blob string) (*Item, error) {
	var it Item
	if err := json.Unmarshal([]byte(blob), &it); err != nil {
		return nil, fmt.Errorf("failed to decode event info for id %d: %w", id, err)
	}
	it.ID = id
	return &it, nil
}

func scanItem(rows *sql.Rows) (*Item, error) {
	var id int64
	var blob string
	if err := rows.Scan(&id, &blob); err != nil {
		return nil, fmt.Errorf("failed to scan schedule item: %w", err)
	}
	return decodeItem(id, blob)
}
