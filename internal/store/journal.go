package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"livewatch-cli/internal/model"

	_ "modernc.org/sqlite"
)

const journalFileName = "journal.sqlite"

// Journal operations.
const (
	OpCreate = "anchor.create"
	OpUpdate = "anchor.update"
	OpDelete = "anchor.delete"
)

// Entry is one successful operator mutation.
type Entry struct {
	Seq       int64           `json:"seq"`
	At        time.Time       `json:"at"`
	ConsoleID string          `json:"consoleId"`
	Op        string          `json:"op"`
	AnchorID  model.ID        `json:"anchorId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Journal is an append-only local log of anchor mutations made from this console.
type Journal struct {
	db        *sql.DB
	consoleID string
	now       func() time.Time
}

func (s Store) journalPath() string {
	return filepath.Join(s.Dir, journalFileName)
}

// OpenJournal opens (creating if needed) the journal database under the store dir.
func (s Store) OpenJournal(ctx context.Context) (*Journal, error) {
	if !s.enabled() {
		return nil, errors.New("journal: no state directory")
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.journalPath())
	if err != nil {
		return nil, err
	}
	// WAL lets a TUI and a CLI command share the file; busy_timeout covers the overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	consoleID, err := ensureMetaUUID(ctx, db, "console_id")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, consoleID: consoleID, now: time.Now}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS journal (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			at_unixms INTEGER NOT NULL,
			console_id TEXT NOT NULL,
			op TEXT NOT NULL,
			anchor_id TEXT NOT NULL,
			payload_json TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_anchor ON journal(anchor_id, seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func ensureMetaUUID(ctx context.Context, db *sql.DB, key string) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, key).Scan(&v)
	if err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, key, id); err != nil {
		return "", err
	}
	return id, nil
}

func (j *Journal) ConsoleID() string { return j.consoleID }

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append records op for anchorID. payload is stored as JSON when non-nil.
func (j *Journal) Append(ctx context.Context, op string, anchorID model.ID, payload any) (Entry, error) {
	e := Entry{
		At:        j.now().UTC(),
		ConsoleID: j.consoleID,
		Op:        op,
		AnchorID:  anchorID,
	}
	var payloadJSON sql.NullString
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Entry{}, fmt.Errorf("journal payload: %w", err)
		}
		e.Payload = b
		payloadJSON = sql.NullString{String: string(b), Valid: true}
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO journal(at_unixms, console_id, op, anchor_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		e.At.UnixMilli(), e.ConsoleID, e.Op, e.AnchorID.String(), payloadJSON,
	)
	if err != nil {
		return Entry{}, err
	}
	if e.Seq, err = res.LastInsertId(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Tail returns the last limit entries, oldest first. limit <= 0 returns everything.
func (j *Journal) Tail(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT seq, at_unixms, console_id, op, anchor_id, payload_json FROM journal ORDER BY seq DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			atMS    int64
			anchor  string
			payload sql.NullString
		)
		if err := rows.Scan(&e.Seq, &atMS, &e.ConsoleID, &e.Op, &anchor, &payload); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(atMS).UTC()
		e.AnchorID = model.ID(anchor)
		if payload.Valid && payload.String != "" {
			e.Payload = json.RawMessage(payload.String)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}
