package broker

import (
	"context"
	"strings"
	"sync"
)

// Content heuristic factors applied by SimpleBroker.
const (
	maliciousContentPenalty  = 0.3
	suspiciousContentPenalty = 0.6
	verifiedContentBonus     = 1.2
)

// SimpleBroker is a heuristic trust broker suitable for demos and tests.
// Production deployments would back this interface with an external trust
// evaluation service.
//
// Sender trust is the stored reputation, falling back to the baseline.
// Content trust starts at the baseline and is scaled down for suspicious
// markers and up (capped at 1.0) for verified markers.
type SimpleBroker struct {
	id       string
	name     string
	baseline float64

	mu          sync.RWMutex
	reputations map[string]float64
	flagged     map[string]struct{}
}

// NewSimpleBroker creates a SimpleBroker with the given baseline trust.
// The baseline is clamped to [0.0, 1.0].
func NewSimpleBroker(id, name string, baseline float64) *SimpleBroker {
	if baseline < 0.0 {
		baseline = 0.0
	}
	if baseline > 1.0 {
		baseline = 1.0
	}
	return &SimpleBroker{
		id:          id,
		name:        name,
		baseline:    baseline,
		reputations: make(map[string]float64),
		flagged:     make(map[string]struct{}),
	}
}

// ID returns the broker's unique identifier.
func (b *SimpleBroker) ID() string { return b.id }

// Name returns the broker's human-readable name.
func (b *SimpleBroker) Name() string { return b.name }

// EvaluateSenderTrust returns the stored reputation for the sender, or
// the baseline when none is recorded.
func (b *SimpleBroker) EvaluateSenderTrust(ctx context.Context, senderID string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if reputation, ok := b.reputations[senderID]; ok {
		return reputation, nil
	}
	return b.baseline, nil
}

// EvaluateContentTrust rates content with keyword heuristics.
func (b *SimpleBroker) EvaluateContentTrust(ctx context.Context, content string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	score := b.baseline
	lowered := strings.ToLower(content)

	if strings.Contains(lowered, "malicious") {
		score *= maliciousContentPenalty
	} else if strings.Contains(lowered, "suspicious") {
		score *= suspiciousContentPenalty
	}

	if strings.Contains(lowered, "verified") {
		score *= verifiedContentBonus
		if score > 1.0 {
			score = 1.0
		}
	}

	if score < 0.0 {
		score = 0.0
	}
	return score, nil
}

// IsFlagged reports whether the sender is explicitly flagged or the
// content carries a malicious marker.
func (b *SimpleBroker) IsFlagged(ctx context.Context, senderID, content string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	b.mu.RLock()
	_, senderFlagged := b.flagged[senderID]
	b.mu.RUnlock()

	if senderFlagged {
		return true, nil
	}
	return strings.Contains(strings.ToLower(content), "malicious"), nil
}

// SetReputation records a reputation for a sender, clamped to [0.0, 1.0].
func (b *SimpleBroker) SetReputation(senderID string, reputation float64) {
	if reputation < 0.0 {
		reputation = 0.0
	}
	if reputation > 1.0 {
		reputation = 1.0
	}

	b.mu.Lock()
	b.reputations[senderID] = reputation
	b.mu.Unlock()
}

// Flag marks a sender as untrustworthy.
func (b *SimpleBroker) Flag(senderID string) {
	b.mu.Lock()
	b.flagged[senderID] = struct{}{}
	b.mu.Unlock()
}

// Unflag removes an untrustworthy mark from a sender.
func (b *SimpleBroker) Unflag(senderID string) {
	b.mu.Lock()
	delete(b.flagged, senderID)
	b.mu.Unlock()
}
