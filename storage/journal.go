// Package storage keeps a local journal of sessions and the function call
// outputs they produced, in <data_dir>/journal.db.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"rtconsole/model"
)

const journalFile = "journal.db"

type SessionRecord struct {
	ID          string     `json:"id"`
	Transport   string     `json:"transport"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	OutputCount int        `json:"output_count"`
}

// Journal implements model.Journal on SQLite. Outputs are keyed by
// (session_id, call_id): recording a call_id again replaces the row but keeps
// its original position.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

var _ model.Journal = (*Journal)(nil)

func NewJournal(dataDir string) (*Journal, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, journalFile)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	j := &Journal{db: db, now: time.Now}

	if err := j.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// The journal holds prompts and arguments; keep it user-only.
	if err := os.Chmod(dbPath, 0600); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal permissions: %w", err)
	}

	return j, nil
}

func (j *Journal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		transport TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME
	);
	CREATE TABLE IF NOT EXISTS outputs (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		call_id TEXT NOT NULL,
		item_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		arguments TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		seq INTEGER NOT NULL,
		PRIMARY KEY (session_id, call_id)
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
	`

	_, err := j.db.Exec(schema)
	return err
}

func (j *Journal) StartSession(id, transport string) error {
	_, err := j.db.Exec(
		`INSERT OR IGNORE INTO sessions (id, transport, started_at) VALUES (?, ?, ?)`,
		id, transport, j.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

// RecordOutput upserts out. A new call_id gets the next seq in the session.
func (j *Journal) RecordOutput(sessionID string, out model.FunctionCallOutput) error {
	query := `
	INSERT INTO outputs (session_id, call_id, item_id, status, name, arguments, updated_at, seq)
	VALUES (?, ?, ?, ?, ?, ?, ?,
		(SELECT COALESCE(MAX(seq), 0) + 1 FROM outputs WHERE session_id = ?))
	ON CONFLICT(session_id, call_id) DO UPDATE SET
		item_id = excluded.item_id,
		status = excluded.status,
		name = excluded.name,
		arguments = excluded.arguments,
		updated_at = excluded.updated_at
	`

	_, err := j.db.Exec(query,
		sessionID,
		out.CallID,
		out.ID,
		out.Status,
		out.Name,
		out.Arguments,
		j.now().UTC(),
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to record output: %w", err)
	}
	return nil
}

func (j *Journal) EndSession(id string) error {
	_, err := j.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, j.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// ListSessions returns every session, most recently started first.
func (j *Journal) ListSessions() ([]SessionRecord, error) {
	query := `
	SELECT s.id, s.transport, s.started_at, s.ended_at,
		(SELECT COUNT(*) FROM outputs o WHERE o.session_id = s.id)
	FROM sessions s
	ORDER BY s.started_at DESC, s.rowid DESC
	`

	rows, err := j.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var ended sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.Transport, &rec.StartedAt, &ended, &rec.OutputCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if ended.Valid {
			t := ended.Time
			rec.EndedAt = &t
		}
		sessions = append(sessions, rec)
	}

	return sessions, rows.Err()
}

// LoadOutputs returns a session's outputs newest-first, the same order the
// controller keeps them in.
func (j *Journal) LoadOutputs(sessionID string) ([]model.FunctionCallOutput, error) {
	query := `
	SELECT call_id, item_id, status, name, arguments
	FROM outputs
	WHERE session_id = ?
	ORDER BY seq DESC
	`

	rows, err := j.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load outputs: %w", err)
	}
	defer rows.Close()

	var outputs []model.FunctionCallOutput
	for rows.Next() {
		out := model.FunctionCallOutput{Type: model.ItemFunctionCall}
		if err := rows.Scan(&out.CallID, &out.ID, &out.Status, &out.Name, &out.Arguments); err != nil {
			return nil, fmt.Errorf("failed to scan output: %w", err)
		}
		outputs = append(outputs, out)
	}

	return outputs, rows.Err()
}

// sessionExport is the file written by ExportToJSON.
type sessionExport struct {
	Session SessionRecord              `json:"session"`
	Outputs []model.FunctionCallOutput `json:"outputs"`
}

// ExportToJSON writes a session and its outputs to exportPath.
func (j *Journal) ExportToJSON(sessionID, exportPath string) error {
	sessions, err := j.ListSessions()
	if err != nil {
		return err
	}

	var export sessionExport
	found := false
	for _, s := range sessions {
		if s.ID == sessionID {
			export.Session = s
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("session %s not found", sessionID)
	}

	if export.Outputs, err = j.LoadOutputs(sessionID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// 0600 - exports carry the same data as the journal
	if err := os.WriteFile(exportPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
