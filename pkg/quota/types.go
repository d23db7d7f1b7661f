package quota

// Tier is the enforcement severity assigned to a resource category.
type Tier string

const (
	// TierSoft is the advisory tier. The workload keeps running.
	TierSoft Tier = "soft"

	// TierHard is the terminal tier. The workload is terminated.
	TierHard Tier = "hard"
)

// Category identifies the resource dimension a record applies to.
type Category string

const (
	// CategoryCompute covers CPU core consumption.
	CategoryCompute Category = "compute"

	// CategoryExecutionTime covers wall-clock execution time.
	CategoryExecutionTime Category = "execution_time"

	// CategoryMemory covers resident memory.
	CategoryMemory Category = "memory"

	// CategoryNetwork covers inter-agent message volume.
	CategoryNetwork Category = "network"

	// CategoryStorage covers persisted state size.
	CategoryStorage Category = "storage"

	// CategoryBrokerQuota covers trust broker query volume.
	CategoryBrokerQuota Category = "broker_quota"

	// CategoryCost covers accumulated mission cost.
	CategoryCost Category = "cost"
)

// ReasonCode explains why an enforcement record was emitted.
type ReasonCode string

const (
	// ReasonSoftQuotaExceeded marks usage in the warning band.
	ReasonSoftQuotaExceeded ReasonCode = "soft_quota_exceeded"

	// ReasonHardQuotaExceeded marks usage past the ceiling.
	ReasonHardQuotaExceeded ReasonCode = "hard_quota_exceeded"
)

// SoftTierRatio is the fraction of a ceiling at which the warning band
// begins, inclusive.
const SoftTierRatio = 0.9

// Record is one enforcement outcome for one category. Records are
// immutable once created; the slice returned by Evaluate is ordered by
// the fixed category evaluation order.
type Record struct {
	// Category is the resource dimension that breached its band.
	Category Category

	// Tier is the assigned severity.
	Tier Tier

	// Reason is the machine-readable cause.
	Reason ReasonCode

	// ObservedRatio is usage divided by the matching ceiling.
	ObservedRatio float64

	// TerminatesWorkload marks the single record on a call that carries
	// the termination action. At most one record per call sets it.
	TerminatesWorkload bool
}
