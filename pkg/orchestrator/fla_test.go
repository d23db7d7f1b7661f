package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"subagentic-hq/saturn/pkg/evidence"
	"subagentic-hq/saturn/pkg/orchestrator/store"
	"subagentic-hq/saturn/pkg/quota"
	"subagentic-hq/saturn/pkg/trust"
	"subagentic-hq/saturn/pkg/trust/broker"
)

// memorySink collects evidence records for assertions.
type memorySink struct {
	mu      sync.Mutex
	records []*evidence.Record
}

func (s *memorySink) Append(ctx context.Context, record *evidence.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *memorySink) byKind(kind evidence.Kind) []*evidence.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*evidence.Record
	for _, r := range s.records {
		if r.Kind == kind {
			matched = append(matched, r)
		}
	}
	return matched
}

func testAgentProfile() quota.Profile {
	profile := quota.DefaultProfile()
	profile.MaxCPUCores = 2.0
	return profile
}

func newTestAgent(t *testing.T, sink *memorySink, st store.Store) *FrontLineAgent {
	t.Helper()

	brokers := []broker.Broker{
		broker.NewSimpleBroker("b1", "alpha", 0.8),
		broker.NewSimpleBroker("b2", "beta", 0.8),
	}
	fla, err := New(Config{
		ID:             "fla-test",
		Brokers:        brokers,
		DefaultPolicy:  trust.NewAgreementPolicy(trust.NewScore(0.6, 0.6), 2, 0.15),
		DefaultProfile: testAgentProfile(),
		Sink:           sink,
		Store:          st,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return fla
}

func activeSnapshot(workloadID string, cpu float64) quota.Snapshot {
	return quota.Snapshot{
		WorkloadID:     workloadID,
		Timestamp:      time.Now().UTC(),
		CPUUsage:       cpu,
		ExecutionTime:  30 * time.Second,
		MemoryBytes:    64 << 20,
		MessageCount:   10,
		StateSizeBytes: 1 << 20,
		BrokerQueries:  5,
		MissionCost:    0.5,
	}
}

func TestProvision(t *testing.T) {
	sink := &memorySink{}
	st := store.NewMemoryStore()
	fla := newTestAgent(t, sink, st)
	ctx := context.Background()

	w, err := fla.Provision(ctx, "analyze quarterly sales data")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	if w.Domain() != DomainDataAnalysis {
		t.Errorf("domain = %q, want %q", w.Domain(), DomainDataAnalysis)
	}
	if w.Status() != StatusActive {
		t.Errorf("status = %q, want active", w.Status())
	}
	if _, ok := fla.Get(w.ID()); !ok {
		t.Error("workload not registered")
	}

	lifecycle := sink.byKind(evidence.KindLifecycle)
	if len(lifecycle) != 1 || lifecycle[0].Detail != "provisioned" {
		t.Errorf("lifecycle evidence = %+v, want one provisioned record", lifecycle)
	}

	state, err := st.Load(ctx, w.ID())
	if err != nil || state == nil {
		t.Fatalf("Load: state=%v err=%v", state, err)
	}
	if state.Status != string(StatusActive) {
		t.Errorf("persisted status = %q, want active", state.Status)
	}
}

func TestProvisionWithBounds_InvalidProfile(t *testing.T) {
	fla := newTestAgent(t, &memorySink{}, nil)

	bad := testAgentProfile()
	bad.MaxCPUCores = 0

	_, err := fla.ProvisionWithBounds(context.Background(), "mission", bad, fla.policy)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(fla.Workloads()) != 0 {
		t.Error("invalid provision must not register a workload")
	}
}

func TestMonitorAndEnforce_TerminatesOnHard(t *testing.T) {
	sink := &memorySink{}
	st := store.NewMemoryStore()
	fla := newTestAgent(t, sink, st)
	ctx := context.Background()

	w, err := fla.Provision(ctx, "crunch numbers")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	records, err := fla.MonitorAndEnforce(ctx, activeSnapshot(w.ID(), 2.5))
	if err != nil {
		t.Fatalf("MonitorAndEnforce: %v", err)
	}
	if len(records) != 1 || !records[0].TerminatesWorkload {
		t.Fatalf("records = %+v, want one terminating record", records)
	}

	if w.Status() != StatusTerminated {
		t.Errorf("status = %q, want terminated", w.Status())
	}
	if want := "hard quota exceeded: compute"; w.TerminationReason() != want {
		t.Errorf("reason = %q, want %q", w.TerminationReason(), want)
	}

	state, err := st.Load(ctx, w.ID())
	if err != nil || state == nil {
		t.Fatalf("Load: state=%v err=%v", state, err)
	}
	if state.Status != string(StatusTerminated) || state.TerminationReason == "" {
		t.Errorf("persisted state = %+v, want terminated with reason", state)
	}

	var found bool
	for _, r := range sink.byKind(evidence.KindLifecycle) {
		if strings.HasPrefix(r.Detail, "terminated:") {
			found = true
		}
	}
	if !found {
		t.Error("missing termination lifecycle evidence")
	}
}

func TestMonitorAndEnforce_IgnoresTerminalWorkloads(t *testing.T) {
	sink := &memorySink{}
	fla := newTestAgent(t, sink, nil)
	ctx := context.Background()

	w, err := fla.Provision(ctx, "crunch numbers")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if _, err := fla.MonitorAndEnforce(ctx, activeSnapshot(w.ID(), 2.5)); err != nil {
		t.Fatalf("first enforcement: %v", err)
	}
	emitted := len(sink.byKind(evidence.KindEnforcement))

	records, err := fla.MonitorAndEnforce(ctx, activeSnapshot(w.ID(), 3.0))
	if err != nil {
		t.Fatalf("second enforcement: %v", err)
	}
	if records != nil {
		t.Errorf("records = %+v, want nil for terminal workload", records)
	}
	if got := len(sink.byKind(evidence.KindEnforcement)); got != emitted {
		t.Errorf("enforcement evidence grew from %d to %d after termination", emitted, got)
	}
}

func TestMonitorAndEnforce_UnknownWorkload(t *testing.T) {
	fla := newTestAgent(t, &memorySink{}, nil)

	_, err := fla.MonitorAndEnforce(context.Background(), activeSnapshot("SA-General-missing", 1.0))
	if !errors.Is(err, ErrWorkloadNotFound) {
		t.Errorf("err = %v, want ErrWorkloadNotFound", err)
	}
}

func TestValidateInbound(t *testing.T) {
	sink := &memorySink{}
	fla := newTestAgent(t, sink, nil)
	ctx := context.Background()

	w, err := fla.Provision(ctx, "summarize reports")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	decision, err := fla.ValidateInbound(ctx, w.ID(), "SA-peer", "weekly status report")
	if err != nil {
		t.Fatalf("ValidateInbound: %v", err)
	}
	if !decision.Admitted || decision.Reason != trust.ReasonAdmitted {
		t.Errorf("decision = %+v, want admitted", decision)
	}
	if decision.Aggregate == nil || decision.Aggregate.SenderTrust != 0.8 {
		t.Errorf("aggregate = %+v, want sender trust 0.8", decision.Aggregate)
	}

	if got := len(sink.byKind(evidence.KindDecision)); got != 1 {
		t.Errorf("decision evidence = %d, want 1", got)
	}
}

func TestValidateInbound_RequiresActiveWorkload(t *testing.T) {
	fla := newTestAgent(t, &memorySink{}, nil)
	ctx := context.Background()

	w, err := fla.Provision(ctx, "summarize reports")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := fla.Pause(ctx, w.ID()); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	_, err = fla.ValidateInbound(ctx, w.ID(), "SA-peer", "content")
	if !errors.Is(err, ErrWorkloadInactive) {
		t.Errorf("err = %v, want ErrWorkloadInactive", err)
	}

	if err := fla.Reactivate(ctx, w.ID()); err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if _, err := fla.ValidateInbound(ctx, w.ID(), "SA-peer", "content"); err != nil {
		t.Errorf("ValidateInbound after reactivation: %v", err)
	}
}

func TestMediateCommunication(t *testing.T) {
	fla := newTestAgent(t, &memorySink{}, nil)
	ctx := context.Background()

	sender, err := fla.Provision(ctx, "research prior art")
	if err != nil {
		t.Fatalf("Provision sender: %v", err)
	}
	receiver, err := fla.Provision(ctx, "summarize findings")
	if err != nil {
		t.Fatalf("Provision receiver: %v", err)
	}

	// No grant yet
	_, err = fla.MediateCommunication(ctx, sender.ID(), receiver.ID(), "draft summary")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}

	if _, err := fla.AuthorizeCommunication(sender.ID(), receiver.ID(), false, nil, 0); err != nil {
		t.Fatalf("AuthorizeCommunication: %v", err)
	}

	decision, err := fla.MediateCommunication(ctx, sender.ID(), receiver.ID(), "draft summary")
	if err != nil {
		t.Fatalf("MediateCommunication: %v", err)
	}
	if !decision.Admitted {
		t.Errorf("decision = %+v, want admitted", decision)
	}

	// Unidirectional grant does not cover the reverse path
	_, err = fla.MediateCommunication(ctx, receiver.ID(), sender.ID(), "reply")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("reverse err = %v, want ErrNotAuthorized", err)
	}
}

func TestMediateCommunication_VetoedSender(t *testing.T) {
	flagging := broker.NewSimpleBroker("b1", "alpha", 0.8)
	brokers := []broker.Broker{
		flagging,
		broker.NewSimpleBroker("b2", "beta", 0.8),
	}
	fla, err := New(Config{
		Brokers:        brokers,
		DefaultPolicy:  trust.NewAgreementPolicy(trust.NewScore(0.6, 0.6), 2, 0.15),
		DefaultProfile: testAgentProfile(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	sender, err := fla.Provision(ctx, "mission a")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	receiver, err := fla.Provision(ctx, "mission b")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if _, err := fla.AuthorizeCommunication(sender.ID(), receiver.ID(), false, nil, 0); err != nil {
		t.Fatalf("AuthorizeCommunication: %v", err)
	}

	flagging.Flag(sender.ID())

	decision, err := fla.MediateCommunication(ctx, sender.ID(), receiver.ID(), "payload")
	if err != nil {
		t.Fatalf("MediateCommunication: %v", err)
	}
	if decision.Admitted || decision.Reason != trust.ReasonVetoed {
		t.Errorf("decision = %+v, want vetoed rejection", decision)
	}
}

func TestRetire_RevokesAuthorizations(t *testing.T) {
	fla := newTestAgent(t, &memorySink{}, nil)
	ctx := context.Background()

	a, err := fla.Provision(ctx, "mission a")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	b, err := fla.Provision(ctx, "mission b")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if _, err := fla.AuthorizeCommunication(a.ID(), b.ID(), true, nil, 0); err != nil {
		t.Fatalf("AuthorizeCommunication: %v", err)
	}

	if err := fla.Complete(ctx, a.ID()); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := fla.Retire(ctx, a.ID()); err != nil {
		t.Fatalf("Retire: %v", err)
	}

	if a.Status() != StatusRetired {
		t.Errorf("status = %q, want retired", a.Status())
	}
	if fla.Authorized(a.ID(), b.ID(), time.Now()) {
		t.Error("authorization should be revoked on retire")
	}
}

func TestRetire_TerminatedWorkloadRejected(t *testing.T) {
	fla := newTestAgent(t, &memorySink{}, nil)
	ctx := context.Background()

	w, err := fla.Provision(ctx, "mission")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if _, err := fla.MonitorAndEnforce(ctx, activeSnapshot(w.ID(), 5.0)); err != nil {
		t.Fatalf("MonitorAndEnforce: %v", err)
	}

	if err := fla.Retire(ctx, w.ID()); err == nil {
		t.Error("retiring a terminated workload should fail")
	}
	if w.Status() != StatusTerminated {
		t.Errorf("status = %q, want terminated preserved", w.Status())
	}
}

func TestActive(t *testing.T) {
	fla := newTestAgent(t, &memorySink{}, nil)
	ctx := context.Background()

	a, err := fla.Provision(ctx, "mission a")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	b, err := fla.Provision(ctx, "mission b")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := fla.Pause(ctx, b.ID()); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	active := fla.Active()
	if len(active) != 1 || active[0].ID() != a.ID() {
		t.Errorf("Active() = %v, want only %s", active, a.ID())
	}
	if got := len(fla.Workloads()); got != 2 {
		t.Errorf("Workloads() = %d, want 2", got)
	}
}
