package orchestrator

import "time"

// ScopeAll authorizes every data scope.
const ScopeAll = "*"

// Authorization is a standing grant for FLA-mediated communication
// between two workloads. Immutable once created.
type Authorization struct {
	// FromWorkloadID is the sender the grant was issued for.
	FromWorkloadID string

	// ToWorkloadID is the receiver the grant was issued for.
	ToWorkloadID string

	// Bidirectional additionally allows the reverse direction.
	Bidirectional bool

	// DataScopes lists the data scopes the grant covers.
	DataScopes []string

	// CreatedAt is when the grant was issued.
	CreatedAt time.Time

	// ExpiresAt bounds the grant's validity. Zero means no expiry.
	ExpiresAt time.Time
}

// NewAuthorization creates a grant. A zero ttl means the grant never
// expires; empty scopes default to all scopes.
func NewAuthorization(fromWorkloadID, toWorkloadID string, bidirectional bool, scopes []string, ttl time.Duration) *Authorization {
	now := time.Now().UTC()

	var expires time.Time
	if ttl > 0 {
		expires = now.Add(ttl)
	}
	if len(scopes) == 0 {
		scopes = []string{ScopeAll}
	}

	return &Authorization{
		FromWorkloadID: fromWorkloadID,
		ToWorkloadID:   toWorkloadID,
		Bidirectional:  bidirectional,
		DataScopes:     scopes,
		CreatedAt:      now,
		ExpiresAt:      expires,
	}
}

// Expired reports whether the grant has passed its expiry.
func (a *Authorization) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

// Allows reports whether the grant covers communication from one
// workload to another at the given time.
func (a *Authorization) Allows(fromID, toID string, now time.Time) bool {
	if a.Expired(now) {
		return false
	}
	if a.FromWorkloadID == fromID && a.ToWorkloadID == toID {
		return true
	}
	if a.Bidirectional && a.FromWorkloadID == toID && a.ToWorkloadID == fromID {
		return true
	}
	return false
}

// AllowsScope reports whether the grant covers a data scope.
func (a *Authorization) AllowsScope(scope string) bool {
	for _, s := range a.DataScopes {
		if s == ScopeAll || s == scope {
			return true
		}
	}
	return false
}

// Covers reports whether the grant involves a workload in either role.
func (a *Authorization) Covers(workloadID string) bool {
	return a.FromWorkloadID == workloadID || a.ToWorkloadID == workloadID
}
