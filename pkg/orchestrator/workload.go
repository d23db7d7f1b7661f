package orchestrator

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"subagentic-hq/saturn/pkg/quota"
	"subagentic-hq/saturn/pkg/trust"
)

// MissionStatus is the lifecycle state of a workload's mission.
type MissionStatus string

const (
	// StatusCreated means the workload exists but has not started.
	StatusCreated MissionStatus = "created"

	// StatusActive means the mission is running.
	StatusActive MissionStatus = "active"

	// StatusPaused means the mission is suspended and can resume.
	StatusPaused MissionStatus = "paused"

	// StatusCompleted means the mission finished successfully.
	StatusCompleted MissionStatus = "completed"

	// StatusFailed means the mission aborted with an error.
	StatusFailed MissionStatus = "failed"

	// StatusTerminated means governance killed the workload. Terminal.
	StatusTerminated MissionStatus = "terminated"

	// StatusRetired means the workload was disposed after its mission
	// concluded. Terminal.
	StatusRetired MissionStatus = "retired"
)

// Terminal reports whether the status admits no further transitions.
func (s MissionStatus) Terminal() bool {
	return s == StatusTerminated || s == StatusRetired
}

// LifecycleError reports an invalid workload state transition.
type LifecycleError struct {
	WorkloadID string
	From       MissionStatus
	To         MissionStatus
}

// Error implements the error interface.
func (e *LifecycleError) Error() string {
	return fmt.Sprintf("workload %s: cannot transition %s -> %s", e.WorkloadID, e.From, e.To)
}

// Workload is one provisioned SubAgent under FLA governance. The quota
// profile and trust policy are bound at provisioning time and never
// change afterward.
type Workload struct {
	id        string
	domain    string
	mission   string
	profile   quota.Profile
	policy    trust.AgreementPolicy
	createdAt time.Time

	mu                sync.Mutex
	status            MissionStatus
	terminationReason string
}

// NewWorkload creates a workload in the created state. The ID embeds
// the domain for log readability, with a uuid suffix for uniqueness.
func NewWorkload(domain, mission string, profile quota.Profile, policy trust.AgreementPolicy) *Workload {
	policy.Normalize()
	return &Workload{
		id:        fmt.Sprintf("SA-%s-%s", domain, strings.ReplaceAll(uuid.New().String(), "-", "")),
		domain:    domain,
		mission:   mission,
		profile:   profile,
		policy:    policy,
		createdAt: time.Now().UTC(),
		status:    StatusCreated,
	}
}

// ID returns the workload's unique identifier.
func (w *Workload) ID() string { return w.id }

// Domain returns the workload's mission domain.
func (w *Workload) Domain() string { return w.domain }

// Mission returns the mission description.
func (w *Workload) Mission() string { return w.mission }

// Profile returns the bound resource profile.
func (w *Workload) Profile() quota.Profile { return w.profile }

// Policy returns the bound trust agreement policy.
func (w *Workload) Policy() trust.AgreementPolicy { return w.policy }

// CreatedAt returns the provisioning timestamp.
func (w *Workload) CreatedAt() time.Time { return w.createdAt }

// Status returns the current mission status.
func (w *Workload) Status() MissionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// TerminationReason returns why the workload was terminated, or empty
// if it was not.
func (w *Workload) TerminationReason() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.terminationReason
}

// Start transitions created -> active.
func (w *Workload) Start() error {
	return w.transition(StatusActive, StatusCreated)
}

// Pause transitions active -> paused.
func (w *Workload) Pause() error {
	return w.transition(StatusPaused, StatusActive)
}

// Resume transitions paused -> active.
func (w *Workload) Resume() error {
	return w.transition(StatusActive, StatusPaused)
}

// Complete transitions active or paused -> completed.
func (w *Workload) Complete() error {
	return w.transition(StatusCompleted, StatusActive, StatusPaused)
}

// Fail transitions active or paused -> failed.
func (w *Workload) Fail() error {
	return w.transition(StatusFailed, StatusActive, StatusPaused)
}

// Terminate moves the workload to the terminated state. It is
// idempotent: repeated calls keep the first reason and succeed. A
// terminated workload never leaves that state.
func (w *Workload) Terminate(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == StatusTerminated {
		return
	}
	w.status = StatusTerminated
	w.terminationReason = reason
}

// Retire disposes the workload after its mission concluded. Retiring a
// retired workload is a no-op; retiring a terminated workload is
// rejected because termination is final.
func (w *Workload) Retire() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.status {
	case StatusRetired:
		return nil
	case StatusTerminated:
		return &LifecycleError{WorkloadID: w.id, From: w.status, To: StatusRetired}
	}
	w.status = StatusRetired
	return nil
}

func (w *Workload) transition(to MissionStatus, from ...MissionStatus) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range from {
		if w.status == f {
			w.status = to
			return nil
		}
	}
	return &LifecycleError{WorkloadID: w.id, From: w.status, To: to}
}
