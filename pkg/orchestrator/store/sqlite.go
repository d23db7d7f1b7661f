package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

var errInvalidState = errors.New("workload state must have an ID")

// SQLiteStore implements Store using SQLite for persistence. Suitable
// for single-instance deployments where the registry must survive
// restarts. Uses WAL mode for concurrent read performance.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	closeOnce sync.Once

	saveStmt   *sql.Stmt
	loadStmt   *sql.Stmt
	listStmt   *sql.Stmt
	deleteStmt *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a SQLite store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{DBPath: dbPath})
}

// NewSQLiteStoreWithConfig creates a SQLite store with custom
// configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workloads (
		id TEXT PRIMARY KEY,
		domain TEXT NOT NULL,
		mission TEXT NOT NULL,
		status TEXT NOT NULL,
		termination_reason TEXT NOT NULL DEFAULT '',
		profile TEXT NOT NULL,
		policy TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workloads_status ON workloads(status);
	CREATE INDEX IF NOT EXISTS idx_workloads_created_at ON workloads(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO workloads (id, domain, mission, status, termination_reason, profile, policy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			termination_reason = excluded.termination_reason,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT id, domain, mission, status, termination_reason, profile, policy, created_at, updated_at
		FROM workloads
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, domain, mission, status, termination_reason, profile, policy, created_at, updated_at
		FROM workloads
		ORDER BY created_at ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM workloads
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	return nil
}

// Save inserts or updates a workload state.
func (s *SQLiteStore) Save(ctx context.Context, state *WorkloadState) error {
	if state == nil || state.ID == "" {
		return errInvalidState
	}

	profileJSON, err := json.Marshal(state.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	policyJSON, err := json.Marshal(state.Policy)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}

	now := time.Now().UTC()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.saveStmt.ExecContext(ctx,
		state.ID,
		state.Domain,
		state.Mission,
		state.Status,
		state.TerminationReason,
		string(profileJSON),
		string(policyJSON),
		state.CreatedAt.Unix(),
		state.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save workload state: %w", err)
	}
	return nil
}

// Load retrieves a workload state by ID. Returns nil if not found.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*WorkloadState, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := scanState(s.loadStmt.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workload state: %w", err)
	}
	return state, nil
}

// List returns all persisted workload states ordered by creation time.
func (s *SQLiteStore) List(ctx context.Context) ([]*WorkloadState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workload states: %w", err)
	}
	defer rows.Close()

	var states []*WorkloadState
	for rows.Next() {
		state, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workload state: %w", err)
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

// Delete removes a workload state.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete workload state: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
	})
	return err
}

// scanner abstracts sql.Row and sql.Rows for scanState.
type scanner interface {
	Scan(dest ...any) error
}

func scanState(row scanner) (*WorkloadState, error) {
	var (
		state       WorkloadState
		profileJSON string
		policyJSON  string
		createdAt   int64
		updatedAt   int64
	)

	err := row.Scan(
		&state.ID,
		&state.Domain,
		&state.Mission,
		&state.Status,
		&state.TerminationReason,
		&profileJSON,
		&policyJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(profileJSON), &state.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if err := json.Unmarshal([]byte(policyJSON), &state.Policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy: %w", err)
	}

	state.CreatedAt = time.Unix(createdAt, 0).UTC()
	state.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &state, nil
}
