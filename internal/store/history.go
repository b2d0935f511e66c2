// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     store
// Description: SQLite persistence for transcription history
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/internal/session"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// HistoryStore persists transcription records in SQLite.
type HistoryStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *logging.Logger
}

// NewHistoryStore opens (or creates) the history database.
func NewHistoryStore(cfg config.HistoryConfig, logger *logging.Logger) (*HistoryStore, error) {
	if logger == nil {
		logger = logging.New("store")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &HistoryStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *HistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		raw_text TEXT NOT NULL DEFAULT '',
		enhanced_text TEXT NOT NULL DEFAULT '',
		audio_path TEXT NOT NULL DEFAULT '',
		engine TEXT NOT NULL DEFAULT '',
		model_id TEXT NOT NULL DEFAULT '',
		transcribe_ms INTEGER NOT NULL DEFAULT 0,
		enhance_ms INTEGER NOT NULL DEFAULT 0,
		prompt_id TEXT NOT NULL DEFAULT '',
		error_detail TEXT NOT NULL DEFAULT '',
		enhancement_note TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_records_status ON records(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Insert stores a new pending record at session start.
func (s *HistoryStore) Insert(rec *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		return fmt.Errorf("record ID is required")
	}

	_, err := s.db.Exec(`
		INSERT INTO records (id, created_at, status, audio_path, engine, model_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt, rec.Status, rec.AudioPath, rec.Engine, rec.ModelID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Save writes the finalized record fields.
func (s *HistoryStore) Save(rec *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE records SET
			status = ?, raw_text = ?, enhanced_text = ?, model_id = ?,
			transcribe_ms = ?, enhance_ms = ?, prompt_id = ?,
			error_detail = ?, enhancement_note = ?
		WHERE id = ?`,
		rec.Status, rec.RawText, rec.EnhancedText, rec.ModelID,
		rec.TranscribeDuration.Milliseconds(), rec.EnhanceDuration.Milliseconds(),
		rec.PromptID, rec.ErrorDetail, rec.EnhancementNote, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record not found: %s", rec.ID)
	}
	return nil
}

// Delete removes a record, e.g. after cancellation.
func (s *HistoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Get loads one record by ID.
func (s *HistoryStore) Get(id string) (*session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT id, created_at, status, raw_text, enhanced_text, audio_path,
		       engine, model_id, transcribe_ms, enhance_ms, prompt_id,
		       error_detail, enhancement_note
		FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return rec, nil
}

// List returns the most recent records, newest first.
func (s *HistoryStore) List(limit, offset int) ([]*session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, status, raw_text, enhanced_text, audio_path,
		       engine, model_id, transcribe_ms, enhance_ms, prompt_id,
		       error_detail, enhancement_note
		FROM records ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*session.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*session.Record, error) {
	var rec session.Record
	var transcribeMs, enhanceMs int64

	err := row.Scan(
		&rec.ID, &rec.CreatedAt, &rec.Status, &rec.RawText, &rec.EnhancedText,
		&rec.AudioPath, &rec.Engine, &rec.ModelID, &transcribeMs, &enhanceMs,
		&rec.PromptID, &rec.ErrorDetail, &rec.EnhancementNote,
	)
	if err != nil {
		return nil, err
	}

	rec.TranscribeDuration = time.Duration(transcribeMs) * time.Millisecond
	rec.EnhanceDuration = time.Duration(enhanceMs) * time.Millisecond
	return &rec, nil
}

// EnforceRetention deletes records older than the retention window along
// with their audio files. A retention of zero or less keeps everything.
func (s *HistoryStore) EnforceRetention(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	rows, err := s.db.Query(`SELECT audio_path FROM records WHERE created_at < ? AND audio_path != ''`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to query expired records: %w", err)
	}
	var audioPaths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err == nil {
			audioPaths = append(audioPaths, p)
		}
	}
	rows.Close()

	res, err := s.db.Exec(`DELETE FROM records WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired records: %w", err)
	}
	n, _ := res.RowsAffected()

	for _, p := range audioPaths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove expired audio", "path", p, "error", err)
		}
	}

	if n > 0 {
		s.logger.Info("retention applied", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
	}
	return int(n), nil
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
