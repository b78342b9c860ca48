package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/floorsign/internal/gesture"
)

// LaneRepository stores lane overrides keyed by target label.
type LaneRepository struct {
	db *sql.DB
}

// Lanes returns the lane repository for this store.
func (s *Store) Lanes() *LaneRepository {
	return &LaneRepository{db: s.db}
}

func scanLane(scan func(dest ...any) error) (gesture.Lane, error) {
	var (
		l         gesture.Lane
		label     string
		policy    string
		confirms  int
		updatedAt time.Time
	)
	if err := scan(&label, &l.Threshold, &l.Increment, &confirms, &policy, &updatedAt); err != nil {
		return l, err
	}

	target, err := gesture.ParseLabel(label)
	if err != nil {
		return l, err
	}
	p, err := gesture.ParsePolicy(policy)
	if err != nil {
		return l, err
	}

	l.Target = target
	l.Policy = p
	l.ConfirmsFloor = confirms != 0
	return l, nil
}

// Upsert validates l and inserts or replaces the override for its label.
func (r *LaneRepository) Upsert(l gesture.Lane) error {
	if err := l.Validate(); err != nil {
		return err
	}

	_, err := r.db.Exec(
		`INSERT INTO lanes (label, threshold, increment, confirms_floor, policy, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(label) DO UPDATE SET
		   threshold = excluded.threshold,
		   increment = excluded.increment,
		   confirms_floor = excluded.confirms_floor,
		   policy = excluded.policy,
		   updated_at = excluded.updated_at`,
		l.Target.String(), l.Threshold, l.Increment, l.ConfirmsFloor, l.Policy.String(), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save lane %s: %w", l.Target, err)
	}
	return nil
}

// Get retrieves the override for a label.
func (r *LaneRepository) Get(label gesture.Label) (*gesture.Lane, error) {
	row := r.db.QueryRow(
		`SELECT label, threshold, increment, confirms_floor, policy, updated_at
		 FROM lanes WHERE label = ?`,
		label.String(),
	)

	l, err := scanLane(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List retrieves every override ordered by label.
func (r *LaneRepository) List() ([]gesture.Lane, error) {
	rows, err := r.db.Query(
		`SELECT label, threshold, increment, confirms_floor, policy, updated_at
		 FROM lanes ORDER BY label`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lanes []gesture.Lane
	for rows.Next() {
		l, err := scanLane(rows.Scan)
		if err != nil {
			return nil, err
		}
		lanes = append(lanes, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lanes, nil
}

// Delete removes the override for a label.
func (r *LaneRepository) Delete(label gesture.Label) error {
	result, err := r.db.Exec(`DELETE FROM lanes WHERE label = ?`, label.String())
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Merge overlays stored overrides onto base. Overrides for labels missing from
// base are appended.
func Merge(base, overrides []gesture.Lane) []gesture.Lane {
	out := make([]gesture.Lane, len(base))
	copy(out, base)

	for _, o := range overrides {
		replaced := false
		for i := range out {
			if out[i].Target == o.Target {
				out[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, o)
		}
	}
	return out
}
