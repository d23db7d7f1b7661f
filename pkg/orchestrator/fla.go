package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"subagentic-hq/saturn/pkg/evidence"
	"subagentic-hq/saturn/pkg/orchestrator/store"
	"subagentic-hq/saturn/pkg/quota"
	"subagentic-hq/saturn/pkg/telemetry/logging"
	"subagentic-hq/saturn/pkg/telemetry/metrics"
	"subagentic-hq/saturn/pkg/trust"
	"subagentic-hq/saturn/pkg/trust/broker"
	"subagentic-hq/saturn/pkg/trust/consensus"
)

var (
	// ErrWorkloadNotFound is returned when the workload ID is not
	// registered with this orchestrator.
	ErrWorkloadNotFound = errors.New("workload not found")

	// ErrWorkloadInactive is returned when an operation requires an
	// active workload.
	ErrWorkloadInactive = errors.New("workload is not active")

	// ErrNotAuthorized is returned when no current authorization covers
	// a requested communication path.
	ErrNotAuthorized = errors.New("communication not authorized")
)

// Config configures a FrontLineAgent.
type Config struct {
	// ID identifies this orchestrator instance in logs and evidence.
	// Default: "fla-1"
	ID string

	// Brokers is the trust broker set used for every inbound validation.
	Brokers []broker.Broker

	// DefaultPolicy is the agreement policy bound to workloads
	// provisioned without explicit bounds.
	DefaultPolicy trust.AgreementPolicy

	// DefaultProfile is the resource profile bound to workloads
	// provisioned without explicit bounds.
	DefaultProfile quota.Profile

	// BrokerTimeout is the per-broker query timeout passed to the
	// consensus evaluator.
	BrokerTimeout time.Duration

	// Sink receives audit evidence. Nil disables emission (tests only).
	Sink evidence.Sink

	// Store persists workload state across restarts. Nil disables
	// persistence.
	Store store.Store

	// Metrics receives governance and quota metrics. Nil disables.
	Metrics *metrics.Collector

	// Redactor rewrites communication payloads in log output. Nil means
	// no redaction.
	Redactor *logging.Redactor
}

// FrontLineAgent is the orchestrator that owns the workload registry and
// drives both governance engines. All SubAgent communication and all
// quota enforcement flows through it.
type FrontLineAgent struct {
	id        string
	brokers   []broker.Broker
	policy    trust.AgreementPolicy
	profile   quota.Profile
	sink      evidence.Sink
	store     store.Store
	metrics   *metrics.Collector
	redactor  *logging.Redactor
	evaluator *consensus.Evaluator
	monitor   *quota.Monitor
	logger    *slog.Logger

	mu             sync.RWMutex
	workloads      map[string]*workloadEntry
	authorizations []*Authorization
}

// workloadEntry pairs a workload with its enforcement lock. The lock
// serializes MonitorAndEnforce per workload so a terminating record and
// a concurrent snapshot cannot race.
type workloadEntry struct {
	workload  *Workload
	enforceMu sync.Mutex
}

// New creates a FrontLineAgent. The default profile must be valid; the
// default policy is normalized into range.
func New(cfg Config) (*FrontLineAgent, error) {
	if cfg.ID == "" {
		cfg.ID = "fla-1"
	}
	if err := cfg.DefaultProfile.Validate(); err != nil {
		return nil, fmt.Errorf("default profile: %w", err)
	}
	cfg.DefaultPolicy.Normalize()

	if cfg.Redactor == nil {
		cfg.Redactor = logging.NewRedactor(false)
	}

	return &FrontLineAgent{
		id:        cfg.ID,
		brokers:   cfg.Brokers,
		policy:    cfg.DefaultPolicy,
		profile:   cfg.DefaultProfile,
		sink:      cfg.Sink,
		store:     cfg.Store,
		metrics:   cfg.Metrics,
		redactor:  cfg.Redactor,
		evaluator: consensus.NewEvaluator(consensus.Config{BrokerTimeout: cfg.BrokerTimeout}, cfg.Sink),
		monitor:   quota.NewMonitor(cfg.Sink),
		logger:    slog.Default().With("component", "orchestrator", "fla_id", cfg.ID),
		workloads: make(map[string]*workloadEntry),
	}, nil
}

// SetDefaults replaces the default profile and policy used by Provision.
// Already provisioned workloads keep their bound values. Used by config
// hot-reload.
func (f *FrontLineAgent) SetDefaults(profile quota.Profile, policy trust.AgreementPolicy) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	policy.Normalize()

	f.mu.Lock()
	f.profile = profile
	f.policy = policy
	f.mu.Unlock()
	return nil
}

// Provision creates and starts a workload for the given mission with the
// orchestrator's default bounds. The mission domain is classified from
// the mission text.
func (f *FrontLineAgent) Provision(ctx context.Context, mission string) (*Workload, error) {
	f.mu.RLock()
	profile, policy := f.profile, f.policy
	f.mu.RUnlock()
	return f.ProvisionWithBounds(ctx, mission, profile, policy)
}

// ProvisionWithBounds creates and starts a workload with an explicit
// resource profile and agreement policy. The bounds are fixed for the
// workload's lifetime.
func (f *FrontLineAgent) ProvisionWithBounds(ctx context.Context, mission string, profile quota.Profile, policy trust.AgreementPolicy) (*Workload, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	domain := ClassifyDomain(mission)
	w := NewWorkload(domain, mission, profile, policy)
	if err := w.Start(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.workloads[w.ID()] = &workloadEntry{workload: w}
	f.mu.Unlock()

	f.logger.Info("workload provisioned",
		"workload_id", w.ID(),
		"domain", domain,
	)
	f.emitLifecycle(ctx, w.ID(), "provisioned")
	f.updateWorkloadGauges()

	if err := f.persist(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Get returns the workload with the given ID.
func (f *FrontLineAgent) Get(workloadID string) (*Workload, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entry, ok := f.workloads[workloadID]
	if !ok {
		return nil, false
	}
	return entry.workload, true
}

// Workloads returns all registered workloads sorted by ID.
func (f *FrontLineAgent) Workloads() []*Workload {
	f.mu.RLock()
	defer f.mu.RUnlock()

	all := make([]*Workload, 0, len(f.workloads))
	for _, entry := range f.workloads {
		all = append(all, entry.workload)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })
	return all
}

// Active returns all workloads currently in the active state, sorted by
// ID.
func (f *FrontLineAgent) Active() []*Workload {
	var active []*Workload
	for _, w := range f.Workloads() {
		if w.Status() == StatusActive {
			active = append(active, w)
		}
	}
	return active
}

// Pause suspends an active workload.
func (f *FrontLineAgent) Pause(ctx context.Context, workloadID string) error {
	return f.transition(ctx, workloadID, (*Workload).Pause, "paused")
}

// Reactivate resumes a paused workload. Terminal workloads cannot be
// reactivated.
func (f *FrontLineAgent) Reactivate(ctx context.Context, workloadID string) error {
	return f.transition(ctx, workloadID, (*Workload).Resume, "resumed")
}

// Complete marks a workload's mission as successfully finished.
func (f *FrontLineAgent) Complete(ctx context.Context, workloadID string) error {
	return f.transition(ctx, workloadID, (*Workload).Complete, "completed")
}

// Fail marks a workload's mission as aborted.
func (f *FrontLineAgent) Fail(ctx context.Context, workloadID string) error {
	return f.transition(ctx, workloadID, (*Workload).Fail, "failed")
}

// Retire disposes a concluded workload and revokes every authorization
// that references it. Terminated workloads cannot be retired; their
// terminal state is preserved for the audit trail.
func (f *FrontLineAgent) Retire(ctx context.Context, workloadID string) error {
	w, ok := f.Get(workloadID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrWorkloadNotFound, workloadID)
	}
	if err := w.Retire(); err != nil {
		return err
	}

	f.mu.Lock()
	kept := f.authorizations[:0]
	for _, auth := range f.authorizations {
		if !auth.Covers(workloadID) {
			kept = append(kept, auth)
		}
	}
	f.authorizations = kept
	f.mu.Unlock()

	f.logger.Info("workload retired", "workload_id", workloadID)
	f.emitLifecycle(ctx, workloadID, "retired")
	f.updateWorkloadGauges()

	if err := f.persist(ctx, w); err != nil {
		f.logger.Warn("failed to persist retired workload",
			"workload_id", workloadID,
			"error", err,
		)
	}
	return nil
}

// MonitorAndEnforce evaluates one usage snapshot against the workload's
// quota profile. A hard tier record terminates the workload before the
// call returns. Snapshots for terminal workloads are ignored.
func (f *FrontLineAgent) MonitorAndEnforce(ctx context.Context, snapshot quota.Snapshot) ([]quota.Record, error) {
	f.mu.RLock()
	entry, ok := f.workloads[snapshot.WorkloadID]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkloadNotFound, snapshot.WorkloadID)
	}

	entry.enforceMu.Lock()
	defer entry.enforceMu.Unlock()

	w := entry.workload
	if w.Status().Terminal() {
		return nil, nil
	}

	records, err := f.monitor.Evaluate(ctx, w.Profile(), snapshot)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if f.metrics != nil {
			f.metrics.RecordQuotaRecord(string(record.Category), string(record.Tier), record.ObservedRatio, record.TerminatesWorkload)
		}
		if record.TerminatesWorkload {
			reason := fmt.Sprintf("hard quota exceeded: %s", record.Category)
			w.Terminate(reason)

			f.logger.Error("workload terminated",
				"workload_id", w.ID(),
				"category", record.Category,
				"observed_ratio", record.ObservedRatio,
			)
			f.emitLifecycle(ctx, w.ID(), "terminated: "+reason)
			f.updateWorkloadGauges()

			if err := f.persist(ctx, w); err != nil {
				f.logger.Warn("failed to persist terminated workload",
					"workload_id", w.ID(),
					"error", err,
				)
			}
		}
	}
	return records, nil
}

// ValidateInbound runs the trust-consensus evaluation for content
// addressed to a workload. Only active workloads accept inbound content.
func (f *FrontLineAgent) ValidateInbound(ctx context.Context, workloadID, senderID, content string) (trust.Decision, error) {
	w, ok := f.Get(workloadID)
	if !ok {
		return trust.Decision{}, fmt.Errorf("%w: %s", ErrWorkloadNotFound, workloadID)
	}
	if w.Status() != StatusActive {
		return trust.Decision{}, fmt.Errorf("%w: %s is %s", ErrWorkloadInactive, workloadID, w.Status())
	}

	start := time.Now()
	decision := f.evaluator.Evaluate(ctx, workloadID, senderID, content, f.brokers, w.Policy())

	if f.metrics != nil {
		outcome := "rejected"
		if decision.Admitted {
			outcome = "admitted"
		}
		f.metrics.RecordDecision(outcome, string(decision.Reason), len(f.brokers), time.Since(start))
		if !decision.SenderAgreement && decision.Reason == trust.ReasonNoAgreement {
			f.metrics.RecordAgreementFailure("sender")
		}
		if !decision.ContentAgreement && decision.Reason == trust.ReasonNoAgreement {
			f.metrics.RecordAgreementFailure("content")
		}
	}
	return decision, nil
}

// AuthorizeCommunication grants a communication path between two
// registered workloads. A zero ttl never expires.
func (f *FrontLineAgent) AuthorizeCommunication(fromID, toID string, bidirectional bool, scopes []string, ttl time.Duration) (*Authorization, error) {
	if _, ok := f.Get(fromID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkloadNotFound, fromID)
	}
	if _, ok := f.Get(toID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkloadNotFound, toID)
	}

	auth := NewAuthorization(fromID, toID, bidirectional, scopes, ttl)

	f.mu.Lock()
	f.authorizations = append(f.authorizations, auth)
	f.mu.Unlock()

	f.logger.Info("communication authorized",
		"from", fromID,
		"to", toID,
		"bidirectional", bidirectional,
	)
	return auth, nil
}

// Authorized reports whether a current authorization covers the path
// from one workload to another.
func (f *FrontLineAgent) Authorized(fromID, toID string, now time.Time) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, auth := range f.authorizations {
		if auth.Allows(fromID, toID, now) {
			return true
		}
	}
	return false
}

// MediateCommunication routes content from one workload to another. The
// path must be authorized, both workloads active, and the content must
// pass the receiver's trust-consensus validation. The decision reflects
// only the trust outcome; authorization and lifecycle failures return
// errors.
func (f *FrontLineAgent) MediateCommunication(ctx context.Context, fromID, toID, content string) (trust.Decision, error) {
	if !f.Authorized(fromID, toID, time.Now()) {
		return trust.Decision{}, fmt.Errorf("%w: %s -> %s", ErrNotAuthorized, fromID, toID)
	}

	sender, ok := f.Get(fromID)
	if !ok {
		return trust.Decision{}, fmt.Errorf("%w: %s", ErrWorkloadNotFound, fromID)
	}
	if sender.Status() != StatusActive {
		return trust.Decision{}, fmt.Errorf("%w: %s is %s", ErrWorkloadInactive, fromID, sender.Status())
	}

	decision, err := f.ValidateInbound(ctx, toID, fromID, content)
	if err != nil {
		return trust.Decision{}, err
	}

	f.logger.Info("communication mediated",
		"from", fromID,
		"to", toID,
		"content", f.redactor.Content(content),
		"admitted", decision.Admitted,
		"reason", decision.Reason,
	)
	return decision, nil
}

// transition applies a lifecycle method to a workload, emits the
// lifecycle evidence, and persists the new state.
func (f *FrontLineAgent) transition(ctx context.Context, workloadID string, apply func(*Workload) error, detail string) error {
	w, ok := f.Get(workloadID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrWorkloadNotFound, workloadID)
	}
	if err := apply(w); err != nil {
		return err
	}

	f.emitLifecycle(ctx, workloadID, detail)
	f.updateWorkloadGauges()

	if err := f.persist(ctx, w); err != nil {
		f.logger.Warn("failed to persist workload state",
			"workload_id", workloadID,
			"error", err,
		)
	}
	return nil
}

// emitLifecycle writes a lifecycle evidence record.
func (f *FrontLineAgent) emitLifecycle(ctx context.Context, workloadID, detail string) {
	if f.sink == nil {
		return
	}
	record := &evidence.Record{
		Kind:         evidence.KindLifecycle,
		WorkloadID:   workloadID,
		ObservedTime: time.Now().UTC(),
		Detail:       detail,
	}
	if err := f.sink.Append(ctx, record); err != nil {
		f.logger.Error("failed to emit lifecycle evidence",
			"workload_id", workloadID,
			"error", err,
		)
	}
}

// persist saves the workload's current state to the configured store.
func (f *FrontLineAgent) persist(ctx context.Context, w *Workload) error {
	if f.store == nil {
		return nil
	}
	state := &store.WorkloadState{
		ID:                w.ID(),
		Domain:            w.Domain(),
		Mission:           w.Mission(),
		Status:            string(w.Status()),
		TerminationReason: w.TerminationReason(),
		Profile:           w.Profile(),
		Policy:            w.Policy(),
		CreatedAt:         w.CreatedAt(),
		UpdatedAt:         time.Now().UTC(),
	}
	return f.store.Save(ctx, state)
}

// updateWorkloadGauges refreshes the per-status workload gauges.
func (f *FrontLineAgent) updateWorkloadGauges() {
	if f.metrics == nil {
		return
	}

	counts := make(map[MissionStatus]int)
	f.mu.RLock()
	for _, entry := range f.workloads {
		counts[entry.workload.Status()]++
	}
	f.mu.RUnlock()

	for _, status := range []MissionStatus{StatusCreated, StatusActive, StatusPaused, StatusCompleted, StatusFailed, StatusTerminated, StatusRetired} {
		f.metrics.RecordWorkloadCount(string(status), counts[status])
	}
}
