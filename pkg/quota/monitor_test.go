package quota

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"subagentic-hq/saturn/pkg/evidence"
)

// memorySink captures appended records for assertions.
type memorySink struct {
	records []*evidence.Record
}

func (s *memorySink) Append(ctx context.Context, record *evidence.Record) error {
	s.records = append(s.records, record)
	return nil
}

func testProfile() Profile {
	p := DefaultProfile()
	p.MaxCPUCores = 2.0
	return p
}

func testSnapshot() Snapshot {
	return Snapshot{
		WorkloadID: "w1",
		Timestamp:  time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestEvaluate_NominalUsageYieldsNoRecords(t *testing.T) {
	m := NewMonitor(nil)

	snapshot := testSnapshot()
	snapshot.CPUUsage = 1.0

	records, err := m.Evaluate(context.Background(), testProfile(), snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records at nominal usage, got %d", len(records))
	}
}

func TestEvaluate_SoftTier(t *testing.T) {
	m := NewMonitor(nil)

	snapshot := testSnapshot()
	snapshot.CPUUsage = 1.85

	records, err := m.Evaluate(context.Background(), testProfile(), snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected exactly one record, got %d", len(records))
	}

	record := records[0]
	if record.Category != CategoryCompute {
		t.Errorf("Expected compute category, got %s", record.Category)
	}
	if record.Tier != TierSoft {
		t.Errorf("Expected soft tier, got %s", record.Tier)
	}
	if record.Reason != ReasonSoftQuotaExceeded {
		t.Errorf("Expected reason soft_quota_exceeded, got %s", record.Reason)
	}
	if math.Abs(record.ObservedRatio-0.925) > 1e-9 {
		t.Errorf("Expected observed ratio 0.925, got %v", record.ObservedRatio)
	}
	if record.TerminatesWorkload {
		t.Error("Soft record must not terminate")
	}
}

func TestEvaluate_HardTierTerminates(t *testing.T) {
	m := NewMonitor(nil)

	snapshot := testSnapshot()
	snapshot.CPUUsage = 2.5

	records, err := m.Evaluate(context.Background(), testProfile(), snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected exactly one record, got %d", len(records))
	}

	record := records[0]
	if record.Tier != TierHard {
		t.Errorf("Expected hard tier, got %s", record.Tier)
	}
	if record.Reason != ReasonHardQuotaExceeded {
		t.Errorf("Expected reason hard_quota_exceeded, got %s", record.Reason)
	}
	if !record.TerminatesWorkload {
		t.Error("Hard record must terminate")
	}
}

func TestEvaluate_TierBoundaries(t *testing.T) {
	m := NewMonitor(nil)
	profile := testProfile()

	tests := []struct {
		name     string
		cpuUsage float64
		wantTier Tier
		wantNone bool
	}{
		{"just below warning band", 1.79, "", true},
		{"exactly at 90% of ceiling", 1.8, TierSoft, false},
		{"inside warning band", 1.95, TierSoft, false},
		{"exactly at ceiling", 2.0, TierSoft, false},
		{"just above ceiling", 2.001, TierHard, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := testSnapshot()
			snapshot.CPUUsage = tt.cpuUsage

			records, err := m.Evaluate(context.Background(), profile, snapshot)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}

			if tt.wantNone {
				if len(records) != 0 {
					t.Fatalf("Expected no records, got %d", len(records))
				}
				return
			}
			if len(records) != 1 {
				t.Fatalf("Expected one record, got %d", len(records))
			}
			if records[0].Tier != tt.wantTier {
				t.Errorf("Tier = %s, want %s", records[0].Tier, tt.wantTier)
			}
		})
	}
}

func TestEvaluate_AdvisoryCostNeverHard(t *testing.T) {
	m := NewMonitor(nil)

	profile := testProfile()
	profile.HardBudgetEnforcement = false

	snapshot := testSnapshot()
	snapshot.MissionCost = profile.MaxMissionCost * 1.5

	records, err := m.Evaluate(context.Background(), profile, snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected one record, got %d", len(records))
	}

	record := records[0]
	if record.Category != CategoryCost {
		t.Errorf("Expected cost category, got %s", record.Category)
	}
	if record.Tier != TierSoft {
		t.Errorf("Expected cost overrun downgraded to soft, got %s", record.Tier)
	}
	if record.TerminatesWorkload {
		t.Error("Advisory cost overrun must not terminate")
	}
	if math.Abs(record.ObservedRatio-1.5) > 1e-9 {
		t.Errorf("Expected observed ratio 1.5, got %v", record.ObservedRatio)
	}
}

func TestEvaluate_EnforcedCostGoesHard(t *testing.T) {
	m := NewMonitor(nil)

	profile := testProfile()
	snapshot := testSnapshot()
	snapshot.MissionCost = profile.MaxMissionCost * 1.5

	records, err := m.Evaluate(context.Background(), profile, snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(records) != 1 || records[0].Tier != TierHard {
		t.Fatalf("Expected one hard cost record, got %+v", records)
	}
	if !records[0].TerminatesWorkload {
		t.Error("Enforced cost overrun must terminate")
	}
}

func TestEvaluate_MultipleHardSingleTermination(t *testing.T) {
	m := NewMonitor(nil)
	profile := testProfile()

	snapshot := testSnapshot()
	snapshot.CPUUsage = profile.MaxCPUCores * 2
	snapshot.MemoryBytes = profile.MaxMemoryBytes * 2
	snapshot.MissionCost = profile.MaxMissionCost * 2

	records, err := m.Evaluate(context.Background(), profile, snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected three hard records, got %d", len(records))
	}

	terminations := 0
	for _, record := range records {
		if record.Tier != TierHard {
			t.Errorf("Expected hard tier for %s, got %s", record.Category, record.Tier)
		}
		if record.TerminatesWorkload {
			terminations++
		}
	}
	if terminations != 1 {
		t.Errorf("Expected exactly one terminating record, got %d", terminations)
	}
	if !records[0].TerminatesWorkload {
		t.Error("Expected the first record in category order to carry termination")
	}
}

func TestEvaluate_FixedCategoryOrder(t *testing.T) {
	m := NewMonitor(nil)
	profile := testProfile()

	snapshot := testSnapshot()
	snapshot.MissionCost = profile.MaxMissionCost * 2
	snapshot.CPUUsage = profile.MaxCPUCores * 2
	snapshot.StateSizeBytes = profile.MaxStateSizeBytes

	records, err := m.Evaluate(context.Background(), profile, snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	want := []Category{CategoryCompute, CategoryStorage, CategoryCost}
	if len(records) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(records))
	}
	for i, category := range want {
		if records[i].Category != category {
			t.Errorf("records[%d].Category = %s, want %s", i, records[i].Category, category)
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	m := NewMonitor(nil)
	profile := testProfile()

	snapshot := testSnapshot()
	snapshot.CPUUsage = 1.9
	snapshot.MessageCount = int64(float64(profile.MaxMessageCount) * 1.2)

	first, err := m.Evaluate(context.Background(), profile, snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	second, err := m.Evaluate(context.Background(), profile, snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Identical inputs produced different record sequences:\n%+v\n%+v", first, second)
	}
}

func TestEvaluate_InvalidSnapshotEmitsNothing(t *testing.T) {
	sink := &memorySink{}
	m := NewMonitor(sink)

	tests := []struct {
		name      string
		mutate    func(*Snapshot)
		wantField string
	}{
		{"missing workload id", func(s *Snapshot) { s.WorkloadID = "" }, "workload_id"},
		{"zero timestamp", func(s *Snapshot) { s.Timestamp = time.Time{} }, "timestamp"},
		{"negative cpu", func(s *Snapshot) { s.CPUUsage = -0.1 }, "cpu_usage"},
		{"negative cost", func(s *Snapshot) { s.MissionCost = -1 }, "mission_cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := testSnapshot()
			snapshot.CPUUsage = 5.0 // would be Hard if evaluated
			tt.mutate(&snapshot)

			records, err := m.Evaluate(context.Background(), testProfile(), snapshot)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", validationErr.Field, tt.wantField)
			}
			if records != nil {
				t.Error("Expected no records on validation failure")
			}
		})
	}

	if len(sink.records) != 0 {
		t.Errorf("Expected no evidence on validation failure, got %d records", len(sink.records))
	}
}

func TestEvaluate_InvalidProfile(t *testing.T) {
	m := NewMonitor(nil)

	profile := testProfile()
	profile.MaxMissionCost = 0

	_, err := m.Evaluate(context.Background(), profile, testSnapshot())
	if err == nil {
		t.Fatal("Expected validation error for zero ceiling")
	}
}

func TestEvaluate_EvidenceEmission(t *testing.T) {
	sink := &memorySink{}
	m := NewMonitor(sink)
	profile := testProfile()

	snapshot := testSnapshot()
	snapshot.CPUUsage = 2.5
	snapshot.BrokerQueries = int64(float64(profile.MaxBrokerQueries) * 0.95)

	records, err := m.Evaluate(context.Background(), profile, snapshot)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected two records, got %d", len(records))
	}
	if len(sink.records) != 2 {
		t.Fatalf("Expected one evidence record per enforcement record, got %d", len(sink.records))
	}

	first := sink.records[0]
	if first.Kind != evidence.KindEnforcement {
		t.Errorf("Expected enforcement kind, got %s", first.Kind)
	}
	if first.WorkloadID != "w1" {
		t.Errorf("Expected workload w1, got %s", first.WorkloadID)
	}
	if first.Category != string(CategoryCompute) || first.Tier != string(TierHard) {
		t.Errorf("Unexpected evidence payload: %+v", first)
	}
	if !first.Terminated {
		t.Error("Expected termination recorded in evidence")
	}
	if !first.ObservedTime.Equal(snapshot.Timestamp) {
		t.Error("Expected evidence observed time to match snapshot timestamp")
	}
}
