package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ambegrouplimited/reminderd/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			params TEXT NOT NULL DEFAULT '{}',
			metadata TEXT NOT NULL DEFAULT '{}',
			last_step TEXT NOT NULL DEFAULT '',
			last_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_client_id ON drafts(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_updated_at ON drafts(updated_at)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			draft_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			remote_id TEXT NOT NULL DEFAULT '',
			submitted_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (draft_id) REFERENCES drafts(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_draft_id ON submissions(draft_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// Ignore "duplicate column" errors for ALTER TABLE
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf("exec migration: %w", err)
			}
		}
	}
	return nil
}

// === Drafts ===

func (s *Storage) CreateDraft(d *domain.Draft) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now()
	_, err := s.db.Exec(
		`INSERT INTO drafts (id, client_id, params, metadata, last_step, last_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ClientID, d.Params, d.Metadata, d.LastStep, d.LastPath, now, now,
	)
	if err != nil {
		return err
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

func (s *Storage) GetDraft(id string) (*domain.Draft, error) {
	d := &domain.Draft{}
	err := s.db.QueryRow(
		`SELECT id, client_id, params, metadata, last_step, last_path, created_at, updated_at
		 FROM drafts WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.ClientID, &d.Params, &d.Metadata, &d.LastStep, &d.LastPath, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// UpdateDraft replaces a stored draft snapshot. The draft must already exist;
// creating with an explicit id is CreateDraft's job.
func (s *Storage) UpdateDraft(d *domain.Draft) error {
	now := time.Now()
	res, err := s.db.Exec(
		`UPDATE drafts SET client_id = ?, params = ?, metadata = ?, last_step = ?, last_path = ?, updated_at = ?
		 WHERE id = ?`,
		d.ClientID, d.Params, d.Metadata, d.LastStep, d.LastPath, now, d.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("draft not found: %s", d.ID)
	}
	d.UpdatedAt = now
	return nil
}

func (s *Storage) ListDraftsByClient(clientID string) ([]*domain.Draft, error) {
	rows, err := s.db.Query(
		`SELECT id, client_id, params, metadata, last_step, last_path, created_at, updated_at
		 FROM drafts WHERE client_id = ? ORDER BY updated_at DESC`,
		clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*domain.Draft
	for rows.Next() {
		d := &domain.Draft{}
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Params, &d.Metadata, &d.LastStep, &d.LastPath, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

func (s *Storage) DeleteDraft(id string) error {
	_, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	return err
}

// PurgeStaleDrafts deletes drafts not touched since cutoff and returns how
// many were removed.
func (s *Storage) PurgeStaleDrafts(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM drafts WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountDrafts returns the number of stored drafts.
func (s *Storage) CountDrafts() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM drafts`).Scan(&n)
	return n, err
}

// === Submissions ===

func (s *Storage) CreateSubmission(sub *domain.Submission) error {
	now := time.Now()
	res, err := s.db.Exec(
		`INSERT INTO submissions (draft_id, payload, remote_id, submitted_at) VALUES (?, ?, ?, ?)`,
		sub.DraftID, sub.Payload, sub.RemoteID, now,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	sub.ID = id
	sub.SubmittedAt = now
	return nil
}

func (s *Storage) ListSubmissionsByDraft(draftID string) ([]*domain.Submission, error) {
	rows, err := s.db.Query(
		`SELECT id, draft_id, payload, remote_id, submitted_at
		 FROM submissions WHERE draft_id = ? ORDER BY submitted_at DESC`,
		draftID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Submission
	for rows.Next() {
		sub := &domain.Submission{}
		if err := rows.Scan(&sub.ID, &sub.DraftID, &sub.Payload, &sub.RemoteID, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
