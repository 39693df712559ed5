// Package state keeps a ledger of provisioned project environments in
// SQLite, with a JSON export for anything that wants to read it without
// opening the database.
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/teamcutter/pybox/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS environments (
    venv_path   TEXT PRIMARY KEY,
    project     TEXT NOT NULL,
    python      TEXT NOT NULL,
    source      TEXT NOT NULL,
    interpreter TEXT NOT NULL,
    created_at  TEXT NOT NULL
);
`

type SQLiteState struct {
	mu           sync.RWMutex
	db           *sql.DB
	dbPath       string
	manifestPath string
}

func NewSQLite(dbPath, manifestPath string) (*SQLiteState, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteState{
		db:           db,
		dbPath:       dbPath,
		manifestPath: manifestPath,
	}, nil
}

func (s *SQLiteState) Add(env *domain.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO environments
		(venv_path, project, python, source, interpreter, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		env.VenvPath, env.Project, env.Python, env.Source, env.Interpreter,
		env.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	return s.exportJSON()
}

func (s *SQLiteState) List() (map[string]*domain.Environment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list()
}

func (s *SQLiteState) list() (map[string]*domain.Environment, error) {
	rows, err := s.db.Query(`
		SELECT venv_path, project, python, source, interpreter, created_at
		FROM environments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	envs := make(map[string]*domain.Environment)
	for rows.Next() {
		var env domain.Environment
		var createdAt string
		if err := rows.Scan(&env.VenvPath, &env.Project, &env.Python,
			&env.Source, &env.Interpreter, &createdAt); err != nil {
			return nil, err
		}
		env.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		envs[env.VenvPath] = &env
	}

	return envs, rows.Err()
}

func (s *SQLiteState) Remove(venvPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM environments WHERE venv_path = ?", venvPath); err != nil {
		return err
	}
	return s.exportJSON()
}

func (s *SQLiteState) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM environments"); err != nil {
		return err
	}
	return s.exportJSON()
}

func (s *SQLiteState) exportJSON() error {
	envs, err := s.list()
	if err != nil {
		return err
	}

	ledger := domain.Ledger{Environments: envs}
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.manifestPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(s.manifestPath, data, 0644)
}

func (s *SQLiteState) Close() error {
	return s.db.Close()
}
