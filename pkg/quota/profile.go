package quota

import "time"

// Profile defines the maximum allowable consumption across resource
// categories for one workload. A profile is bound at provisioning time
// and never mutated afterward.
type Profile struct {
	// MaxCPUCores is the compute ceiling in fractional cores.
	MaxCPUCores float64

	// MaxGPUAllocation is the GPU ceiling in fractional devices. Zero
	// means the workload gets no GPU.
	MaxGPUAllocation float64

	// MaxExecutionTime is the wall-clock ceiling per invocation.
	MaxExecutionTime time.Duration

	// LifetimeComputeBudget is the total compute budget over the
	// workload's lifetime, in abstract compute units.
	LifetimeComputeBudget float64

	// MaxMemoryBytes is the resident memory ceiling.
	MaxMemoryBytes int64

	// MaxMessageCount is the ceiling on inter-agent messages.
	MaxMessageCount int64

	// MaxStateSizeBytes is the persisted state ceiling.
	MaxStateSizeBytes int64

	// MaxLogSizeBytes is the log output ceiling.
	MaxLogSizeBytes int64

	// MaxBrokerQueries is the ceiling on trust broker evaluations.
	MaxBrokerQueries int64

	// MaxMissionCost is the cost ceiling in USD.
	MaxMissionCost float64

	// HardBudgetEnforcement controls the cost category's terminal tier.
	// When false, cost overruns emit Soft records only and never
	// terminate the workload.
	HardBudgetEnforcement bool
}

// DefaultProfile returns a conservative profile suitable for untrusted
// workloads.
func DefaultProfile() Profile {
	return Profile{
		MaxCPUCores:           1.0,
		MaxGPUAllocation:      0.0,
		MaxExecutionTime:      5 * time.Minute,
		LifetimeComputeBudget: 100.0,
		MaxMemoryBytes:        512 * 1024 * 1024,
		MaxMessageCount:       1000,
		MaxStateSizeBytes:     100 * 1024 * 1024,
		MaxLogSizeBytes:       50 * 1024 * 1024,
		MaxBrokerQueries:      100,
		MaxMissionCost:        10.0,
		HardBudgetEnforcement: true,
	}
}

// Validate checks that every enforced ceiling is positive. The GPU,
// lifetime budget, and log ceilings are informational and only need to
// be non-negative.
func (p Profile) Validate() error {
	switch {
	case p.MaxCPUCores <= 0:
		return NewValidationError("profile", "max_cpu_cores", "ceiling must be positive")
	case p.MaxExecutionTime <= 0:
		return NewValidationError("profile", "max_execution_time", "ceiling must be positive")
	case p.MaxMemoryBytes <= 0:
		return NewValidationError("profile", "max_memory_bytes", "ceiling must be positive")
	case p.MaxMessageCount <= 0:
		return NewValidationError("profile", "max_message_count", "ceiling must be positive")
	case p.MaxStateSizeBytes <= 0:
		return NewValidationError("profile", "max_state_size_bytes", "ceiling must be positive")
	case p.MaxBrokerQueries <= 0:
		return NewValidationError("profile", "max_broker_queries", "ceiling must be positive")
	case p.MaxMissionCost <= 0:
		return NewValidationError("profile", "max_mission_cost", "ceiling must be positive")
	case p.MaxGPUAllocation < 0:
		return NewValidationError("profile", "max_gpu_allocation", "must not be negative")
	case p.LifetimeComputeBudget < 0:
		return NewValidationError("profile", "lifetime_compute_budget", "must not be negative")
	case p.MaxLogSizeBytes < 0:
		return NewValidationError("profile", "max_log_size_bytes", "must not be negative")
	}
	return nil
}
