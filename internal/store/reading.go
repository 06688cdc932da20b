package store

import (
	"database/sql"
	"time"
)

// Reading is one stabilized metrics snapshot within a session.
type Reading struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	EstimatedAge int       `json:"estimated_age"`
	Wrinkles     int       `json:"wrinkles"`
	EyeAging     int       `json:"eye_aging"`
	Texture      int       `json:"texture"`
	Volume       int       `json:"volume"`
	SkinTone     int       `json:"skin_tone"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReadingRepository provides access to per-session readings.
type ReadingRepository struct {
	db *sql.DB
}

// Readings returns the reading repository for this store.
func (s *Store) Readings() *ReadingRepository {
	return &ReadingRepository{db: s.db}
}

// Append inserts a batch of readings for a session in a single transaction
// and advances the session's frame count by the batch size.
func (r *ReadingRepository) Append(sessionID string, readings []Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO readings (session_id, estimated_age, wrinkles, eye_aging, texture, volume, skin_tone)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, reading := range readings {
		_, err := stmt.Exec(sessionID,
			reading.EstimatedAge, reading.Wrinkles, reading.EyeAging,
			reading.Texture, reading.Volume, reading.SkinTone)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`UPDATE sessions SET frames = frames + ? WHERE id = ?`,
		len(readings), sessionID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetBySessionID retrieves all readings for a session in recording order.
func (r *ReadingRepository) GetBySessionID(sessionID string) ([]Reading, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, estimated_age, wrinkles, eye_aging, texture, volume, skin_tone, created_at
		 FROM readings
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var reading Reading
		err := rows.Scan(&reading.ID, &reading.SessionID,
			&reading.EstimatedAge, &reading.Wrinkles, &reading.EyeAging,
			&reading.Texture, &reading.Volume, &reading.SkinTone,
			&reading.CreatedAt)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return readings, nil
}

// DeleteBySessionID removes all readings for a given session.
func (r *ReadingRepository) DeleteBySessionID(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM readings WHERE session_id = ?`, sessionID)
	return err
}
