package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"subagentic-hq/saturn/pkg/evidence"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/evidence.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "evidence.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, evidence.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return evidence.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return evidence.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return evidence.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return evidence.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return evidence.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return evidence.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists an evidence record to the database.
func (s *SQLiteStorage) Store(ctx context.Context, record *evidence.Record) error {
	verdicts, err := json.Marshal(record.BrokerVerdicts)
	if err != nil {
		return evidence.NewStorageError("sqlite", "marshal_verdicts", err)
	}

	query := `
		INSERT INTO evidence (
			id, kind, workload_id, evaluation_id,
			observed_time, recorded_time,
			sender_id, content_hash, admitted, reason,
			sender_trust, content_trust, sender_agreement, content_agreement,
			broker_verdicts,
			category, tier, observed_ratio, terminated,
			detail
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var senderTrust, contentTrust sql.NullFloat64
	if record.SenderTrust != nil {
		senderTrust = sql.NullFloat64{Float64: *record.SenderTrust, Valid: true}
	}
	if record.ContentTrust != nil {
		contentTrust = sql.NullFloat64{Float64: *record.ContentTrust, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, query,
		record.ID, string(record.Kind), record.WorkloadID, record.EvaluationID,
		record.ObservedTime, record.RecordedTime,
		record.SenderID, record.ContentHash, record.Admitted, record.Reason,
		senderTrust, contentTrust, record.SenderAgreement, record.ContentAgreement,
		string(verdicts),
		record.Category, record.Tier, record.ObservedRatio, record.Terminated,
		record.Detail,
	)
	if err != nil {
		return evidence.NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves evidence records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *evidence.Query) ([]*evidence.Record, error) {
	where, args := buildWhereClause(query)

	sortOrder := "ASC"
	if query.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	sqlQuery := fmt.Sprintf(`
		SELECT id, kind, workload_id, evaluation_id,
		       observed_time, recorded_time,
		       sender_id, content_hash, admitted, reason,
		       sender_trust, content_trust, sender_agreement, content_agreement,
		       broker_verdicts,
		       category, tier, observed_ratio, terminated,
		       detail
		FROM evidence
		%s
		ORDER BY observed_time %s
	`, where, sortOrder)

	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", query.Limit)
	}
	if query.Offset > 0 {
		if query.Limit <= 0 {
			sqlQuery += " LIMIT -1"
		}
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, evidence.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	results := []*evidence.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, evidence.NewStorageError("sqlite", "scan", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, evidence.NewStorageError("sqlite", "iterate", err)
	}

	return results, nil
}

// Count returns the number of evidence records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *evidence.Query) (int64, error) {
	where, args := buildWhereClause(query)

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM evidence "+where, args...).Scan(&count)
	if err != nil {
		return 0, evidence.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes evidence records matching the query filters.
func (s *SQLiteStorage) Delete(ctx context.Context, query *evidence.Query) (int64, error) {
	where, args := buildWhereClause(query)

	result, err := s.db.ExecContext(ctx, "DELETE FROM evidence "+where, args...)
	if err != nil {
		return 0, evidence.NewStorageError("sqlite", "delete", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, evidence.NewStorageError("sqlite", "rows_affected", err)
	}

	return deleted, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return evidence.NewStorageError("sqlite", "close", err)
	}
	return nil
}

// buildWhereClause converts query filters into a SQL WHERE clause with
// positional arguments.
func buildWhereClause(query *evidence.Query) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if query.StartTime != nil {
		conditions = append(conditions, "observed_time >= ?")
		args = append(args, *query.StartTime)
	}
	if query.EndTime != nil {
		conditions = append(conditions, "observed_time <= ?")
		args = append(args, *query.EndTime)
	}
	if query.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(query.Kind))
	}
	if query.WorkloadID != "" {
		conditions = append(conditions, "workload_id = ?")
		args = append(args, query.WorkloadID)
	}
	if query.SenderID != "" {
		conditions = append(conditions, "sender_id = ?")
		args = append(args, query.SenderID)
	}
	if query.Reason != "" {
		conditions = append(conditions, "reason = ?")
		args = append(args, query.Reason)
	}
	if query.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, query.Category)
	}
	if query.Tier != "" {
		conditions = append(conditions, "tier = ?")
		args = append(args, query.Tier)
	}
	if query.Admitted != nil {
		conditions = append(conditions, "admitted = ?")
		args = append(args, *query.Admitted)
	}
	if query.Terminated != nil {
		conditions = append(conditions, "terminated = ?")
		args = append(args, *query.Terminated)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// scanRecord scans a single evidence row.
func scanRecord(rows *sql.Rows) (*evidence.Record, error) {
	var (
		record                     evidence.Record
		kind                       string
		evaluationID               sql.NullString
		senderID, contentHash      sql.NullString
		reason, category, tier     sql.NullString
		detail, verdicts           sql.NullString
		senderTrust, contentTrust  sql.NullFloat64
		admitted, senderAgreement  sql.NullBool
		contentAgreement, termBool sql.NullBool
		observedRatio              sql.NullFloat64
	)

	err := rows.Scan(
		&record.ID, &kind, &record.WorkloadID, &evaluationID,
		&record.ObservedTime, &record.RecordedTime,
		&senderID, &contentHash, &admitted, &reason,
		&senderTrust, &contentTrust, &senderAgreement, &contentAgreement,
		&verdicts,
		&category, &tier, &observedRatio, &termBool,
		&detail,
	)
	if err != nil {
		return nil, err
	}

	record.Kind = evidence.Kind(kind)
	record.EvaluationID = evaluationID.String
	record.SenderID = senderID.String
	record.ContentHash = contentHash.String
	record.Admitted = admitted.Bool
	record.Reason = reason.String
	record.SenderAgreement = senderAgreement.Bool
	record.ContentAgreement = contentAgreement.Bool
	record.Category = category.String
	record.Tier = tier.String
	record.ObservedRatio = observedRatio.Float64
	record.Terminated = termBool.Bool
	record.Detail = detail.String

	if senderTrust.Valid {
		record.SenderTrust = &senderTrust.Float64
	}
	if contentTrust.Valid {
		record.ContentTrust = &contentTrust.Float64
	}

	if verdicts.Valid && verdicts.String != "" && verdicts.String != "null" {
		if err := json.Unmarshal([]byte(verdicts.String), &record.BrokerVerdicts); err != nil {
			return nil, err
		}
	}

	return &record, nil
}
