package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"fleetsim/model"
)

const transitionsSchema = `
CREATE TABLE IF NOT EXISTS transitions (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	clock_time   INTEGER NOT NULL,
	object_type  TEXT NOT NULL,
	uuid         TEXT NOT NULL,
	itinerary_id TEXT,
	from_state   TEXT NOT NULL,
	to_state     TEXT NOT NULL,
	lon          REAL NOT NULL,
	lat          REAL NOT NULL,
	details      TEXT
);
CREATE INDEX IF NOT EXISTS idx_transitions_object ON transitions (object_type, uuid);
CREATE INDEX IF NOT EXISTS idx_transitions_clock ON transitions (clock_time);
`

// sqliteFlushBatch is how many buffered records trigger a transaction.
const sqliteFlushBatch = 256

// SQLiteRecorder persists transition records into an embedded SQLite
// database. Records are buffered and inserted in batched transactions; Close
// flushes the remainder.
type SQLiteRecorder struct {
	db  *sql.DB
	buf []model.Transition
	err error
}

// NewSQLiteRecorder opens (creating if needed) the database and ensures the
// schema. The simulation is single-threaded and SQLite supports one writer,
// so the pool is pinned to a single connection.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open transition db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping transition db: %w", err)
	}
	if _, err := db.Exec(transitionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure transitions schema: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

func (s *SQLiteRecorder) Record(t model.Transition) {
	s.buf = append(s.buf, t)
	if len(s.buf) >= sqliteFlushBatch {
		s.flush()
	}
}

// Flush writes all buffered records and reports the first error seen so far.
func (s *SQLiteRecorder) Flush() error {
	s.flush()
	return s.err
}

func (s *SQLiteRecorder) flush() {
	if len(s.buf) == 0 || s.err != nil {
		return
	}
	tx, err := s.db.Begin()
	if err != nil {
		s.err = fmt.Errorf("begin transition batch: %w", err)
		return
	}
	stmt, err := tx.Prepare(`INSERT INTO transitions
		(clock_time, object_type, uuid, itinerary_id, from_state, to_state, lon, lat, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		s.err = fmt.Errorf("prepare transition insert: %w", err)
		return
	}
	for _, t := range s.buf {
		var details any
		if len(t.Details) > 0 {
			if b, err := json.Marshal(t.Details); err == nil {
				details = string(b)
			}
		}
		var itineraryID any
		if t.ItineraryID != "" {
			itineraryID = t.ItineraryID
		}
		if _, err := stmt.Exec(t.ClockTime, t.ObjectType, t.ID, itineraryID,
			t.FromState, t.ToState, t.Lon, t.Lat, details); err != nil {
			stmt.Close()
			tx.Rollback()
			s.err = fmt.Errorf("insert transition: %w", err)
			return
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		s.err = fmt.Errorf("commit transition batch: %w", err)
		return
	}
	s.buf = s.buf[:0]
}

// Close flushes buffered records and closes the database.
func (s *SQLiteRecorder) Close() error {
	s.flush()
	if cerr := s.db.Close(); s.err == nil {
		s.err = cerr
	}
	return s.err
}
