package evidence

import (
	"context"
	"io"
	"time"
)

// Kind identifies the type of an evidence record.
type Kind string

const (
	// KindDecision is the outcome of one trust-consensus evaluation.
	KindDecision Kind = "decision"

	// KindEnforcement is one quota enforcement record.
	KindEnforcement Kind = "enforcement"

	// KindLifecycle is a workload lifecycle event (provisioned, retired,
	// manually terminated).
	KindLifecycle Kind = "lifecycle"
)

// Record is a single entry in the audit trail. A record is immutable once
// created; its lifetime ends when the retention pruner deletes it.
type Record struct {
	// Identity
	ID           string `json:"id"`            // UUID v4
	Kind         Kind   `json:"kind"`          // Record kind
	WorkloadID   string `json:"workload_id"`   // Governed workload
	EvaluationID string `json:"evaluation_id"` // Consensus evaluation scope (decisions only)

	// Timestamps
	ObservedTime time.Time `json:"observed_time"` // When the engine produced the outcome
	RecordedTime time.Time `json:"recorded_time"` // When the record was written

	// Decision fields (kind=decision)
	SenderID         string                `json:"sender_id,omitempty"`
	ContentHash      string                `json:"content_hash,omitempty"` // SHA-256 of the inbound payload
	Admitted         bool                  `json:"admitted"`
	Reason           string                `json:"reason,omitempty"`
	SenderTrust      *float64              `json:"sender_trust,omitempty"`  // Aggregate sender axis
	ContentTrust     *float64              `json:"content_trust,omitempty"` // Aggregate content axis
	SenderAgreement  bool                  `json:"sender_agreement"`
	ContentAgreement bool                  `json:"content_agreement"`
	BrokerVerdicts   []BrokerVerdictRecord `json:"broker_verdicts,omitempty"`

	// Enforcement fields (kind=enforcement)
	Category      string  `json:"category,omitempty"` // Resource category
	Tier          string  `json:"tier,omitempty"`     // "soft" or "hard"
	ObservedRatio float64 `json:"observed_ratio"`     // usage / ceiling
	Terminated    bool    `json:"terminated"`         // Workload terminated by this record

	// Lifecycle fields (kind=lifecycle)
	Detail string `json:"detail,omitempty"`
}

// BrokerVerdictRecord captures one broker's raw verdict within a
// consensus evaluation. Full traceability requires every verdict to be
// recorded, including failed queries.
type BrokerVerdictRecord struct {
	BrokerID     string        `json:"broker_id"`
	SenderTrust  float64       `json:"sender_trust"`
	ContentTrust float64       `json:"content_trust"`
	Flagged      bool          `json:"flagged"`
	Error        string        `json:"error,omitempty"` // Non-empty when the broker errored or timed out
	Latency      time.Duration `json:"latency"`
}

// Query defines filter parameters for querying evidence records.
type Query struct {
	// Time range (against ObservedTime)
	StartTime *time.Time `json:"start_time,omitempty"` // Inclusive
	EndTime   *time.Time `json:"end_time,omitempty"`   // Inclusive

	// Filters
	Kind       Kind   `json:"kind,omitempty"`
	WorkloadID string `json:"workload_id,omitempty"`
	SenderID   string `json:"sender_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Category   string `json:"category,omitempty"`
	Tier       string `json:"tier,omitempty"`
	Admitted   *bool  `json:"admitted,omitempty"`
	Terminated *bool  `json:"terminated,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Sorting
	SortBy    string `json:"sort_by,omitempty"`    // "observed_time" (default)
	SortOrder string `json:"sort_order,omitempty"` // "asc" (default), "desc"
}

// Storage defines the interface for evidence storage backends.
// Implementations must be thread-safe and support concurrent access.
type Storage interface {
	// Store persists an evidence record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves evidence records matching the query filters.
	// Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query filters and returns the
	// number deleted. Used for retention policy enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the storage backend.
	Close() error
}

// Sink is the narrow append-only interface the governance engines emit to.
// The engines never read evidence back.
type Sink interface {
	// Append enqueues a record for writing. It must not block on storage.
	Append(ctx context.Context, record *Record) error
}

// Exporter writes evidence records to an output in a specific format.
type Exporter interface {
	// Export writes records to w in the exporter's format.
	Export(ctx context.Context, records []*Record, w io.Writer) error
}
