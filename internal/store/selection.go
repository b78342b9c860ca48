package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Selection is one confirmed floor.
type Selection struct {
	ID            string    `json:"id"`
	Floor         int       `json:"floor"`
	PreviousFloor int       `json:"previous_floor"`
	Delta         int       `json:"delta"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// SelectionRepository records confirmed selections.
type SelectionRepository struct {
	db *sql.DB
}

// Selections returns the selection repository for this store.
func (s *Store) Selections() *SelectionRepository {
	return &SelectionRepository{db: s.db}
}

// Create inserts a selection, assigning an ID and timestamp when unset.
func (r *SelectionRepository) Create(sel *Selection) error {
	if sel.ID == "" {
		sel.ID = uuid.New().String()
	}
	if sel.ConfirmedAt.IsZero() {
		sel.ConfirmedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO selections (id, floor, previous_floor, delta, confirmed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sel.ID, sel.Floor, sel.PreviousFloor, sel.Delta, sel.ConfirmedAt,
	)
	return err
}

// List returns up to limit selections, newest first. A limit of zero or less
// returns every row.
func (r *SelectionRepository) List(limit int) ([]*Selection, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, floor, previous_floor, delta, confirmed_at
		 FROM selections ORDER BY confirmed_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selections []*Selection
	for rows.Next() {
		sel := &Selection{}
		if err := rows.Scan(&sel.ID, &sel.Floor, &sel.PreviousFloor, &sel.Delta, &sel.ConfirmedAt); err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return selections, nil
}

// Latest returns the most recent selection.
func (r *SelectionRepository) Latest() (*Selection, error) {
	sel := &Selection{}
	err := r.db.QueryRow(
		`SELECT id, floor, previous_floor, delta, confirmed_at
		 FROM selections ORDER BY confirmed_at DESC, rowid DESC LIMIT 1`,
	).Scan(&sel.ID, &sel.Floor, &sel.PreviousFloor, &sel.Delta, &sel.ConfirmedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sel, nil
}
