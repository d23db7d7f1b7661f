package orchestrator

import (
	"testing"
	"time"
)

func TestAuthorization_Allows(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name          string
		bidirectional bool
		fromID, toID  string
		want          bool
	}{
		{"forward direction", false, "SA-a", "SA-b", true},
		{"reverse unidirectional", false, "SA-b", "SA-a", false},
		{"reverse bidirectional", true, "SA-b", "SA-a", true},
		{"unrelated workload", true, "SA-c", "SA-b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := NewAuthorization("SA-a", "SA-b", tt.bidirectional, nil, 0)
			if got := auth.Allows(tt.fromID, tt.toID, now); got != tt.want {
				t.Errorf("Allows(%s, %s) = %v, want %v", tt.fromID, tt.toID, got, tt.want)
			}
		})
	}
}

func TestAuthorization_Expiry(t *testing.T) {
	auth := NewAuthorization("SA-a", "SA-b", false, nil, time.Minute)

	within := auth.CreatedAt.Add(30 * time.Second)
	if !auth.Allows("SA-a", "SA-b", within) {
		t.Error("grant should allow within its ttl")
	}

	after := auth.CreatedAt.Add(2 * time.Minute)
	if auth.Allows("SA-a", "SA-b", after) {
		t.Error("grant should expire after its ttl")
	}

	forever := NewAuthorization("SA-a", "SA-b", false, nil, 0)
	distant := auth.CreatedAt.Add(24 * 365 * time.Hour)
	if forever.Expired(distant) {
		t.Error("zero ttl should never expire")
	}
}

func TestAuthorization_Scopes(t *testing.T) {
	unscoped := NewAuthorization("SA-a", "SA-b", false, nil, 0)
	if !unscoped.AllowsScope("telemetry") {
		t.Error("empty scopes should default to all")
	}

	scoped := NewAuthorization("SA-a", "SA-b", false, []string{"telemetry", "reports"}, 0)
	if !scoped.AllowsScope("reports") {
		t.Error("listed scope should be allowed")
	}
	if scoped.AllowsScope("secrets") {
		t.Error("unlisted scope should be denied")
	}
}

func TestAuthorization_Covers(t *testing.T) {
	auth := NewAuthorization("SA-a", "SA-b", false, nil, 0)

	if !auth.Covers("SA-a") || !auth.Covers("SA-b") {
		t.Error("grant should cover both endpoints")
	}
	if auth.Covers("SA-c") {
		t.Error("grant should not cover unrelated workloads")
	}
}
