package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one continuous viewing in front of the camera.
// EndedAt and SummaryAge are nil while the session is still open.
type Session struct {
	ID         string
	StartedAt  time.Time
	EndedAt    *time.Time
	Frames     int
	SummaryAge *int
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new open session into the database.
func (r *SessionRepository) Create(sess *Session) error {
	sess.StartedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, frames) VALUES (?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Frames,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime
	var summaryAge sql.NullInt64

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, frames, summary_age
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &summaryAge)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	if summaryAge.Valid {
		age := int(summaryAge.Int64)
		sess.SummaryAge = &age
	}

	return sess, nil
}

// List retrieves sessions newest first. A limit of 0 or less returns all.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	query := `SELECT id, started_at, ended_at, frames, summary_age
	 FROM sessions ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var endedAt sql.NullTime
		var summaryAge sql.NullInt64

		err := rows.Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &summaryAge)
		if err != nil {
			return nil, err
		}

		if endedAt.Valid {
			t := endedAt.Time
			sess.EndedAt = &t
		}
		if summaryAge.Valid {
			age := int(summaryAge.Int64)
			sess.SummaryAge = &age
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// End closes an open session, recording the viewer's last stabilized age.
// Ending a missing or already closed session returns ErrNotFound.
func (r *SessionRepository) End(id string, summaryAge int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, summary_age = ? WHERE id = ? AND ended_at IS NULL`,
		time.Now(), summaryAge, id,
	)
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

// EndStale closes any sessions left open by a previous run.
func (r *SessionRepository) EndStale() error {
	_, err := r.db.Exec(`UPDATE sessions SET ended_at = started_at WHERE ended_at IS NULL`)
	return err
}

// Delete removes a session and, through the schema, its readings.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
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
