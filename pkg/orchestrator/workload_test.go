package orchestrator

import (
	"errors"
	"strings"
	"testing"

	"subagentic-hq/saturn/pkg/quota"
	"subagentic-hq/saturn/pkg/trust"
)

func newTestWorkload(t *testing.T) *Workload {
	t.Helper()
	policy := trust.NewAgreementPolicy(trust.NewScore(0.6, 0.6), 2, 0.15)
	return NewWorkload(DomainGeneral, "hold position", quota.DefaultProfile(), policy)
}

func TestNewWorkload_IDFormat(t *testing.T) {
	w := newTestWorkload(t)

	if !strings.HasPrefix(w.ID(), "SA-General-") {
		t.Errorf("ID = %q, want SA-General- prefix", w.ID())
	}
	if len(w.ID()) != len("SA-General-")+32 {
		t.Errorf("ID = %q, want 32 hex suffix", w.ID())
	}
	if w.Status() != StatusCreated {
		t.Errorf("status = %q, want created", w.Status())
	}
}

func TestWorkload_LifecycleTransitions(t *testing.T) {
	tests := []struct {
		name    string
		steps   []func(*Workload) error
		status  MissionStatus
		wantErr bool
	}{
		{
			name:   "start",
			steps:  []func(*Workload) error{(*Workload).Start},
			status: StatusActive,
		},
		{
			name:   "pause and resume",
			steps:  []func(*Workload) error{(*Workload).Start, (*Workload).Pause, (*Workload).Resume},
			status: StatusActive,
		},
		{
			name:   "complete from active",
			steps:  []func(*Workload) error{(*Workload).Start, (*Workload).Complete},
			status: StatusCompleted,
		},
		{
			name:   "fail from paused",
			steps:  []func(*Workload) error{(*Workload).Start, (*Workload).Pause, (*Workload).Fail},
			status: StatusFailed,
		},
		{
			name:    "pause before start",
			steps:   []func(*Workload) error{(*Workload).Pause},
			status:  StatusCreated,
			wantErr: true,
		},
		{
			name:    "resume active",
			steps:   []func(*Workload) error{(*Workload).Start, (*Workload).Resume},
			status:  StatusActive,
			wantErr: true,
		},
		{
			name:    "double start",
			steps:   []func(*Workload) error{(*Workload).Start, (*Workload).Start},
			status:  StatusActive,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorkload(t)

			var lastErr error
			for _, step := range tt.steps {
				lastErr = step(w)
			}

			if (lastErr != nil) != tt.wantErr {
				t.Fatalf("last transition error = %v, wantErr %v", lastErr, tt.wantErr)
			}
			if tt.wantErr {
				var lcErr *LifecycleError
				if !errors.As(lastErr, &lcErr) {
					t.Fatalf("error type = %T, want *LifecycleError", lastErr)
				}
			}
			if w.Status() != tt.status {
				t.Errorf("status = %q, want %q", w.Status(), tt.status)
			}
		})
	}
}

func TestWorkload_TerminateIsIdempotent(t *testing.T) {
	w := newTestWorkload(t)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	w.Terminate("hard quota exceeded: compute")
	w.Terminate("a later reason")

	if w.Status() != StatusTerminated {
		t.Fatalf("status = %q, want terminated", w.Status())
	}
	if got := w.TerminationReason(); got != "hard quota exceeded: compute" {
		t.Errorf("reason = %q, want first reason kept", got)
	}
}

func TestWorkload_TerminatedIsFinal(t *testing.T) {
	w := newTestWorkload(t)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Terminate("hard quota exceeded: memory")

	if err := w.Resume(); err == nil {
		t.Error("Resume on terminated workload should fail")
	}
	if err := w.Complete(); err == nil {
		t.Error("Complete on terminated workload should fail")
	}
	if err := w.Retire(); err == nil {
		t.Error("Retire on terminated workload should fail")
	}
	if w.Status() != StatusTerminated {
		t.Errorf("status = %q, want terminated", w.Status())
	}
}

func TestWorkload_RetireIsIdempotent(t *testing.T) {
	w := newTestWorkload(t)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if err := w.Retire(); err != nil {
		t.Fatalf("Retire: %v", err)
	}
	if err := w.Retire(); err != nil {
		t.Errorf("second Retire should be a no-op, got %v", err)
	}
	if w.Status() != StatusRetired {
		t.Errorf("status = %q, want retired", w.Status())
	}
}

func TestMissionStatus_Terminal(t *testing.T) {
	for status, want := range map[MissionStatus]bool{
		StatusCreated:    false,
		StatusActive:     false,
		StatusPaused:     false,
		StatusCompleted:  false,
		StatusFailed:     false,
		StatusTerminated: true,
		StatusRetired:    true,
	} {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}
