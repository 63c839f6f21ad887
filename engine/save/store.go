package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrSlotNotFound is returned by Get for a slot that was never written.
var ErrSlotNotFound = errors.New("save slot not found")

// Slot describes one stored save.
type Slot struct {
	ID      string
	Name    string
	Game    string
	Turn    int
	SavedAt time.Time
}

// Store keeps save slots in a sqlite database. Writing to an existing slot
// replaces it.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the save database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save database: %w", err)
	}
	// A :memory: database exists per connection.
	db.SetMaxOpenConns(1)

	st := &Store{db: db}
	if err := st.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return st, nil
}

func (st *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		slot TEXT NOT NULL UNIQUE,
		game TEXT NOT NULL,
		turn INTEGER NOT NULL,
		saved_at DATETIME NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_saved_at ON saves(saved_at);
	`
	_, err := st.db.Exec(schema)
	return err
}

// Put writes save data into a named slot and returns the new save ID.
func (st *Store) Put(ctx context.Context, slot string, data []byte) (string, error) {
	sd, err := Load(data)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = st.db.ExecContext(ctx, `
		INSERT INTO saves (id, slot, game, turn, saved_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			id = excluded.id, game = excluded.game, turn = excluded.turn,
			saved_at = excluded.saved_at, data = excluded.data
	`, id, slot, sd.Game, sd.Turn, time.Now().UTC(), data)
	if err != nil {
		return "", fmt.Errorf("write slot %q: %w", slot, err)
	}
	return id, nil
}

// Get returns the save data stored in a slot.
func (st *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	var data []byte
	err := st.db.QueryRowContext(ctx, `SELECT data FROM saves WHERE slot = ?`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", slot, err)
	}
	return data, nil
}

// List returns every slot, most recently saved first.
func (st *Store) List(ctx context.Context) ([]Slot, error) {
	rows, err := st.db.QueryContext(ctx, `
		SELECT id, slot, game, turn, saved_at
		FROM saves
		ORDER BY saved_at DESC, slot
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.Name, &s.Game, &s.Turn, &s.SavedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (st *Store) Close() error {
	return st.db.Close()
}
