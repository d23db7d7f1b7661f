package quota

import (
	"context"
	"log/slog"

	"subagentic-hq/saturn/pkg/evidence"
)

// categoryOrder fixes the evaluation order so identical inputs always
// yield identically ordered record sequences.
var categoryOrder = []Category{
	CategoryCompute,
	CategoryExecutionTime,
	CategoryMemory,
	CategoryNetwork,
	CategoryStorage,
	CategoryBrokerQuota,
	CategoryCost,
}

// Monitor classifies usage snapshots against resource profiles and
// emits enforcement records. It holds no per-workload state.
type Monitor struct {
	sink   evidence.Sink
	logger *slog.Logger
}

// NewMonitor creates a quota monitor. The sink receives one audit
// record per enforcement record; a nil sink disables audit emission
// (tests only).
func NewMonitor(sink evidence.Sink) *Monitor {
	return &Monitor{
		sink:   sink,
		logger: slog.Default().With("component", "quota.monitor"),
	}
}

// reading pairs a category's observed usage with its ceiling.
type reading struct {
	usage   float64
	ceiling float64
}

// Evaluate classifies every category of the snapshot against the
// profile and returns the resulting enforcement records in fixed
// category order. Over-limit usage is a modeled outcome; the only error
// condition is malformed input, which aborts with no records emitted.
//
// When several categories are past their ceiling on one call, all are
// reported but only the first carries TerminatesWorkload, keeping
// termination a single workload-level action.
func (m *Monitor) Evaluate(ctx context.Context, profile Profile, snapshot Snapshot) ([]Record, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	readings := map[Category]reading{
		CategoryCompute:       {snapshot.CPUUsage, profile.MaxCPUCores},
		CategoryExecutionTime: {snapshot.ExecutionTime.Seconds(), profile.MaxExecutionTime.Seconds()},
		CategoryMemory:        {float64(snapshot.MemoryBytes), float64(profile.MaxMemoryBytes)},
		CategoryNetwork:       {float64(snapshot.MessageCount), float64(profile.MaxMessageCount)},
		CategoryStorage:       {float64(snapshot.StateSizeBytes), float64(profile.MaxStateSizeBytes)},
		CategoryBrokerQuota:   {float64(snapshot.BrokerQueries), float64(profile.MaxBrokerQueries)},
		CategoryCost:          {snapshot.MissionCost, profile.MaxMissionCost},
	}

	var records []Record
	terminationAssigned := false

	for _, category := range categoryOrder {
		r := readings[category]
		tier, ok := classify(r.usage, r.ceiling)
		if !ok {
			continue
		}

		// Advisory cost ceilings never reach the terminal tier.
		if category == CategoryCost && tier == TierHard && !profile.HardBudgetEnforcement {
			tier = TierSoft
		}

		record := Record{
			Category:      category,
			Tier:          tier,
			Reason:        ReasonSoftQuotaExceeded,
			ObservedRatio: r.usage / r.ceiling,
		}
		if tier == TierHard {
			record.Reason = ReasonHardQuotaExceeded
			if !terminationAssigned {
				record.TerminatesWorkload = true
				terminationAssigned = true
			}
		}

		records = append(records, record)
		m.logRecord(snapshot.WorkloadID, record)
		m.emit(ctx, snapshot, record)
	}

	return records, nil
}

// classify maps a usage reading to its enforcement tier. The warning
// band is inclusive at both ends: usage at exactly 90% of the ceiling
// and usage at exactly the ceiling are both Soft. Hard requires usage
// strictly above the ceiling.
func classify(usage, ceiling float64) (Tier, bool) {
	if usage > ceiling {
		return TierHard, true
	}
	if usage >= SoftTierRatio*ceiling {
		return TierSoft, true
	}
	return "", false
}

func (m *Monitor) logRecord(workloadID string, record Record) {
	level := slog.LevelWarn
	if record.Tier == TierHard {
		level = slog.LevelError
	}
	m.logger.Log(context.Background(), level, "quota enforcement record",
		"workload_id", workloadID,
		"category", string(record.Category),
		"tier", string(record.Tier),
		"reason", string(record.Reason),
		"observed_ratio", record.ObservedRatio,
		"terminates", record.TerminatesWorkload,
	)
}

func (m *Monitor) emit(ctx context.Context, snapshot Snapshot, record Record) {
	if m.sink == nil {
		return
	}

	err := m.sink.Append(ctx, &evidence.Record{
		Kind:          evidence.KindEnforcement,
		WorkloadID:    snapshot.WorkloadID,
		ObservedTime:  snapshot.Timestamp,
		Category:      string(record.Category),
		Tier:          string(record.Tier),
		Reason:        string(record.Reason),
		ObservedRatio: record.ObservedRatio,
		Terminated:    record.TerminatesWorkload,
	})
	if err != nil {
		m.logger.Error("failed to append enforcement evidence",
			"workload_id", snapshot.WorkloadID,
			"category", string(record.Category),
			"error", err,
		)
	}
}
