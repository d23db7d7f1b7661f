package trust

import "testing"

func TestNewScore_Clamping(t *testing.T) {
	tests := []struct {
		name        string
		sender      float64
		content     float64
		wantSender  float64
		wantContent float64
	}{
		{"in range", 0.5, 0.7, 0.5, 0.7},
		{"negative sender", -0.3, 0.5, 0.0, 0.5},
		{"above one content", 0.5, 1.8, 0.5, 1.0},
		{"both out of range", -1.0, 2.0, 0.0, 1.0},
		{"boundaries", 0.0, 1.0, 0.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScore(tt.sender, tt.content)
			if s.SenderTrust != tt.wantSender {
				t.Errorf("SenderTrust = %v, want %v", s.SenderTrust, tt.wantSender)
			}
			if s.ContentTrust != tt.wantContent {
				t.Errorf("ContentTrust = %v, want %v", s.ContentTrust, tt.wantContent)
			}
		})
	}
}

func TestScore_MeetsThreshold(t *testing.T) {
	threshold := NewScore(0.6, 0.6)

	tests := []struct {
		name  string
		score Score
		want  bool
	}{
		{"both above", NewScore(0.7, 0.8), true},
		{"both equal", NewScore(0.6, 0.6), true},
		{"sender below", NewScore(0.5, 0.9), false},
		{"content below", NewScore(0.9, 0.5), false},
		{"both below", NewScore(0.1, 0.1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.score.MeetsThreshold(threshold); got != tt.want {
				t.Errorf("MeetsThreshold() = %v, want %v", got, tt.want)
			}
		})
	}
}

// High content trust must never compensate for low sender trust.
func TestScore_MeetsThreshold_NoAxisSubstitution(t *testing.T) {
	threshold := NewScore(0.6, 0.6)
	score := NewScore(0.3, 1.0)

	if score.MeetsThreshold(threshold) {
		t.Error("expected threshold check to fail: axes must clear independently")
	}
}

func TestNewAgreementPolicy_Normalize(t *testing.T) {
	tests := []struct {
		name          string
		minimum       int
		tolerance     float64
		wantMinimum   int
		wantTolerance float64
	}{
		{"valid", 3, 0.1, 3, 0.1},
		{"minimum below floor", 1, 0.1, 2, 0.1},
		{"zero minimum", 0, 0.1, 2, 0.1},
		{"negative tolerance", 2, -0.5, 2, 0.0},
		{"tolerance above one", 2, 1.5, 2, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewAgreementPolicy(NewScore(0.5, 0.5), tt.minimum, tt.tolerance)
			if p.MinimumAgreeingBrokers != tt.wantMinimum {
				t.Errorf("MinimumAgreeingBrokers = %d, want %d", p.MinimumAgreeingBrokers, tt.wantMinimum)
			}
			if p.ToleranceBand != tt.wantTolerance {
				t.Errorf("ToleranceBand = %v, want %v", p.ToleranceBand, tt.wantTolerance)
			}
		})
	}
}
