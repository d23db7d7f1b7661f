package broker

import (
	"context"
	"testing"
)

func TestSimpleBroker_SenderTrust(t *testing.T) {
	b := NewSimpleBroker("b1", "Broker One", 0.7)
	ctx := context.Background()

	got, err := b.EvaluateSenderTrust(ctx, "unknown-sender")
	if err != nil {
		t.Fatalf("EvaluateSenderTrust failed: %v", err)
	}
	if got != 0.7 {
		t.Errorf("Expected baseline 0.7 for unknown sender, got %v", got)
	}

	b.SetReputation("known-sender", 0.95)
	got, err = b.EvaluateSenderTrust(ctx, "known-sender")
	if err != nil {
		t.Fatalf("EvaluateSenderTrust failed: %v", err)
	}
	if got != 0.95 {
		t.Errorf("Expected stored reputation 0.95, got %v", got)
	}
}

func TestSimpleBroker_SetReputation_Clamps(t *testing.T) {
	b := NewSimpleBroker("b1", "Broker One", 0.7)
	ctx := context.Background()

	b.SetReputation("s1", 1.7)
	got, _ := b.EvaluateSenderTrust(ctx, "s1")
	if got != 1.0 {
		t.Errorf("Expected reputation clamped to 1.0, got %v", got)
	}

	b.SetReputation("s2", -0.4)
	got, _ = b.EvaluateSenderTrust(ctx, "s2")
	if got != 0.0 {
		t.Errorf("Expected reputation clamped to 0.0, got %v", got)
	}
}

func TestSimpleBroker_ContentTrust(t *testing.T) {
	b := NewSimpleBroker("b1", "Broker One", 0.7)
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"neutral", "quarterly report attached", 0.7},
		{"malicious", "malicious payload", 0.7 * 0.3},
		{"suspicious", "suspicious attachment", 0.7 * 0.6},
		{"verified", "verified quarterly report", 0.84},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.EvaluateContentTrust(ctx, tt.content)
			if err != nil {
				t.Fatalf("EvaluateContentTrust failed: %v", err)
			}
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("EvaluateContentTrust(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestSimpleBroker_ContentTrust_VerifiedCapped(t *testing.T) {
	b := NewSimpleBroker("b1", "Broker One", 0.9)
	ctx := context.Background()

	got, err := b.EvaluateContentTrust(ctx, "verified source")
	if err != nil {
		t.Fatalf("EvaluateContentTrust failed: %v", err)
	}
	if got != 1.0 {
		t.Errorf("Expected verified bonus capped at 1.0, got %v", got)
	}
}

func TestSimpleBroker_IsFlagged(t *testing.T) {
	b := NewSimpleBroker("b1", "Broker One", 0.7)
	ctx := context.Background()

	flagged, err := b.IsFlagged(ctx, "sender", "normal content")
	if err != nil {
		t.Fatalf("IsFlagged failed: %v", err)
	}
	if flagged {
		t.Error("Expected unflagged sender with normal content")
	}

	flagged, _ = b.IsFlagged(ctx, "sender", "malicious content")
	if !flagged {
		t.Error("Expected malicious content to be flagged")
	}

	b.Flag("bad-sender")
	flagged, _ = b.IsFlagged(ctx, "bad-sender", "normal content")
	if !flagged {
		t.Error("Expected flagged sender to be reported")
	}

	b.Unflag("bad-sender")
	flagged, _ = b.IsFlagged(ctx, "bad-sender", "normal content")
	if flagged {
		t.Error("Expected unflagged sender after Unflag")
	}
}

func TestSimpleBroker_CancelledContext(t *testing.T) {
	b := NewSimpleBroker("b1", "Broker One", 0.7)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.EvaluateSenderTrust(ctx, "sender"); err == nil {
		t.Error("Expected error from cancelled context")
	}
	if _, err := b.EvaluateContentTrust(ctx, "content"); err == nil {
		t.Error("Expected error from cancelled context")
	}
	if _, err := b.IsFlagged(ctx, "sender", "content"); err == nil {
		t.Error("Expected error from cancelled context")
	}
}
