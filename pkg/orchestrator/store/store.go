package store

import (
	"context"
	"time"

	"subagentic-hq/saturn/pkg/quota"
	"subagentic-hq/saturn/pkg/trust"
)

// WorkloadState is the persisted view of one workload.
type WorkloadState struct {
	// ID is the workload identifier.
	ID string `json:"id"`

	// Domain is the mission domain.
	Domain string `json:"domain"`

	// Mission is the mission description.
	Mission string `json:"mission"`

	// Status is the last observed mission status.
	Status string `json:"status"`

	// TerminationReason is set when the workload was terminated.
	TerminationReason string `json:"termination_reason,omitempty"`

	// Profile is the bound resource profile.
	Profile quota.Profile `json:"profile"`

	// Policy is the bound trust agreement policy.
	Policy trust.AgreementPolicy `json:"policy"`

	// CreatedAt is the provisioning timestamp.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the last persistence timestamp.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists workload states.
type Store interface {
	// Save inserts or updates a workload state.
	Save(ctx context.Context, state *WorkloadState) error

	// Load retrieves a workload state by ID. Returns nil if not found.
	Load(ctx context.Context, id string) (*WorkloadState, error)

	// List returns all persisted workload states.
	List(ctx context.Context) ([]*WorkloadState, error)

	// Delete removes a workload state.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
