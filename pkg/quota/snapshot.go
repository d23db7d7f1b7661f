package quota

import "time"

// Snapshot is a point-in-time usage reading for one workload, produced
// by the orchestrator's telemetry collection. All readings are
// cumulative for their category except CPUUsage, which is instantaneous.
type Snapshot struct {
	// WorkloadID identifies the workload the readings belong to.
	WorkloadID string

	// Timestamp is when the readings were taken.
	Timestamp time.Time

	// CPUUsage is current consumption in fractional cores.
	CPUUsage float64

	// ExecutionTime is wall-clock time spent in the current invocation.
	ExecutionTime time.Duration

	// MemoryBytes is current resident memory.
	MemoryBytes int64

	// MessageCount is the number of inter-agent messages sent.
	MessageCount int64

	// StateSizeBytes is the persisted state size.
	StateSizeBytes int64

	// BrokerQueries is the number of trust broker evaluations consumed.
	BrokerQueries int64

	// MissionCost is accumulated cost in USD.
	MissionCost float64
}

// Validate checks the snapshot for structural defects. A snapshot that
// fails validation aborts evaluation without emitting records.
func (s Snapshot) Validate() error {
	switch {
	case s.WorkloadID == "":
		return NewValidationError("snapshot", "workload_id", "must not be empty")
	case s.Timestamp.IsZero():
		return NewValidationError("snapshot", "timestamp", "must be set")
	case s.CPUUsage < 0:
		return NewValidationError("snapshot", "cpu_usage", "must not be negative")
	case s.ExecutionTime < 0:
		return NewValidationError("snapshot", "execution_time", "must not be negative")
	case s.MemoryBytes < 0:
		return NewValidationError("snapshot", "memory_bytes", "must not be negative")
	case s.MessageCount < 0:
		return NewValidationError("snapshot", "message_count", "must not be negative")
	case s.StateSizeBytes < 0:
		return NewValidationError("snapshot", "state_size_bytes", "must not be negative")
	case s.BrokerQueries < 0:
		return NewValidationError("snapshot", "broker_queries", "must not be negative")
	case s.MissionCost < 0:
		return NewValidationError("snapshot", "mission_cost", "must not be negative")
	}
	return nil
}
