// Package storage provides SQLite persistence for generation records.
//
// Information Hiding:
// - SQLite connection management hidden behind the store type
// - Schema details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// GenerationKind classifies what a record's artifact contains.
type GenerationKind string

const (
	KindAssessment GenerationKind = "assessment"
	KindRoadmap    GenerationKind = "roadmap"
	KindAnalysis   GenerationKind = "analysis"
	KindText       GenerationKind = "text"
)

// GenerationRecord is one persisted generation outcome: the artifact as
// JSON plus provenance and token accounting.
type GenerationRecord struct {
	ID               string
	Kind             GenerationKind
	Provider         string
	Model            string
	Artifact         string // JSON document
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Fallback         bool
	CreatedAt        int64 // unix seconds
}

// GenerationStore persists generation records in SQLite.
type GenerationStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func Open(path string) (*GenerationStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return initStore(db)
}

// NewInMemory creates an in-memory store (useful for testing).
func NewInMemory() (*GenerationStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}
	return initStore(db)
}

func initStore(db *sql.DB) (*GenerationStore, error) {
	store := &GenerationStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *GenerationStore) Close() error {
	return s.db.Close()
}

func (s *GenerationStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS generations (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			artifact TEXT NOT NULL,
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0,
			total_tokens INTEGER NOT NULL DEFAULT 0,
			fallback INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_generations_kind
		ON generations(kind, created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save persists a record, assigning an id and timestamp when absent, and
// returns the stored record.
func (s *GenerationStore) Save(ctx context.Context, rec GenerationRecord) (GenerationRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations
		(id, kind, provider, model, artifact, prompt_tokens, completion_tokens, total_tokens, fallback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Kind),
		rec.Provider,
		rec.Model,
		rec.Artifact,
		rec.PromptTokens,
		rec.CompletionTokens,
		rec.TotalTokens,
		boolToInt(rec.Fallback),
		rec.CreatedAt,
	)
	if err != nil {
		return GenerationRecord{}, fmt.Errorf("failed to save generation: %w", err)
	}
	return rec, nil
}

// Get returns a record by id, or nil if not found.
func (s *GenerationStore) Get(ctx context.Context, id string) (*GenerationRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, provider, model, artifact, prompt_tokens, completion_tokens, total_tokens, fallback, created_at
		FROM generations WHERE id = ?`, id)

	rec, err := scanGeneration(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return &rec, nil
}

// ListRecent returns the most recent records of a kind, newest first.
// An empty kind matches all kinds.
func (s *GenerationStore) ListRecent(ctx context.Context, kind GenerationKind, limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error
	if kind != "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, kind, provider, model, artifact, prompt_tokens, completion_tokens, total_tokens, fallback, created_at
			FROM generations WHERE kind = ? ORDER BY created_at DESC, id LIMIT ?`,
			string(kind), limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, kind, provider, model, artifact, prompt_tokens, completion_tokens, total_tokens, fallback, created_at
			FROM generations ORDER BY created_at DESC, id LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}
	defer rows.Close()

	records := []GenerationRecord{}
	for rows.Next() {
		rec, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generations: %w", err)
	}
	return records, nil
}

// Delete removes a record by id.
func (s *GenerationStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM generations WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete generation: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGeneration(row rowScanner) (GenerationRecord, error) {
	var rec GenerationRecord
	var kind string
	var fallback int
	err := row.Scan(
		&rec.ID,
		&kind,
		&rec.Provider,
		&rec.Model,
		&rec.Artifact,
		&rec.PromptTokens,
		&rec.CompletionTokens,
		&rec.TotalTokens,
		&fallback,
		&rec.CreatedAt,
	)
	if err != nil {
		return GenerationRecord{}, err
	}
	rec.Kind = GenerationKind(kind)
	rec.Fallback = fallback != 0
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
