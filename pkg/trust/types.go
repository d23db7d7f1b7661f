package trust

// ReasonCode identifies why a governance decision was reached.
type ReasonCode string

const (
	// ReasonAdmitted indicates the content passed all trust checks.
	ReasonAdmitted ReasonCode = "admitted"

	// ReasonInsufficientBrokers indicates the broker set was smaller than
	// the policy's minimum agreement requirement. No brokers are queried
	// in this case; the evaluation fails closed.
	ReasonInsufficientBrokers ReasonCode = "insufficient_brokers"

	// ReasonVetoed indicates at least one broker flagged the sender or
	// content as untrustworthy. A single veto is absolute and cannot be
	// outvoted by numeric consensus.
	ReasonVetoed ReasonCode = "vetoed"

	// ReasonBrokerUnavailable indicates a broker errored or timed out.
	// Unavailability is treated as a veto (fail-closed) but reported
	// distinctly so operators can tell "untrusted" from "unreachable".
	ReasonBrokerUnavailable ReasonCode = "broker_unavailable"

	// ReasonNoAgreement indicates broker evaluations did not converge
	// within the policy's tolerance band on one or both axes.
	ReasonNoAgreement ReasonCode = "no_agreement"

	// ReasonBelowThreshold indicates brokers agreed, but the aggregate
	// score did not meet the required threshold on both axes.
	ReasonBelowThreshold ReasonCode = "below_threshold"
)

// Score is a two-axis trust level. Both axes are clamped to [0.0, 1.0]
// at construction and are never negative or greater than 1.
type Score struct {
	// SenderTrust rates the sender's historical reliability.
	SenderTrust float64 `json:"sender_trust"`

	// ContentTrust rates the payload's factual accuracy and provenance.
	ContentTrust float64 `json:"content_trust"`
}

// NewScore builds a Score with both axes clamped to [0.0, 1.0].
func NewScore(senderTrust, contentTrust float64) Score {
	return Score{
		SenderTrust:  clamp01(senderTrust),
		ContentTrust: clamp01(contentTrust),
	}
}

// MeetsThreshold reports whether this score clears the given threshold on
// both axes independently. There is no substitution between axes.
func (s Score) MeetsThreshold(threshold Score) bool {
	return s.SenderTrust >= threshold.SenderTrust &&
		s.ContentTrust >= threshold.ContentTrust
}

// DefaultMinimumAgreeingBrokers is the floor for AgreementPolicy's
// minimum agreement requirement. Independent agreement is meaningless
// with fewer than two brokers.
const DefaultMinimumAgreeingBrokers = 2

// AgreementPolicy configures the trust-consensus check for a governance
// context. It is created by the orchestrator and never mutated by the
// engines.
type AgreementPolicy struct {
	// RequiredThreshold is the minimum aggregate score for admission.
	RequiredThreshold Score `json:"required_threshold"`

	// MinimumAgreeingBrokers is the number of brokers whose evaluations
	// must fall within the tolerance band of the mean, per axis.
	// Values below 2 are raised to 2 by Normalize.
	MinimumAgreeingBrokers int `json:"minimum_agreeing_brokers"`

	// ToleranceBand is the maximum absolute distance from the per-axis
	// mean for a broker evaluation to count as agreeing. Clamped to
	// [0.0, 1.0] by Normalize.
	ToleranceBand float64 `json:"tolerance_band"`
}

// NewAgreementPolicy builds a normalized policy.
func NewAgreementPolicy(threshold Score, minimumAgreeing int, tolerance float64) AgreementPolicy {
	p := AgreementPolicy{
		RequiredThreshold:      threshold,
		MinimumAgreeingBrokers: minimumAgreeing,
		ToleranceBand:          tolerance,
	}
	p.Normalize()
	return p
}

// Normalize raises the minimum agreement floor to 2 and clamps the
// tolerance band to [0.0, 1.0].
func (p *AgreementPolicy) Normalize() {
	if p.MinimumAgreeingBrokers < DefaultMinimumAgreeingBrokers {
		p.MinimumAgreeingBrokers = DefaultMinimumAgreeingBrokers
	}
	p.ToleranceBand = clamp01(p.ToleranceBand)
}

// Decision is the terminal outcome of a single consensus evaluation.
// It is produced once per invocation and never mutated.
type Decision struct {
	// Admitted reports whether the inbound content was accepted.
	Admitted bool `json:"admitted"`

	// Reason is the reason code for the outcome.
	Reason ReasonCode `json:"reason"`

	// Aggregate is the per-axis mean score across all brokers. Nil when
	// the evaluation ended before scores were aggregated (insufficient
	// brokers, veto, unavailability, or no agreement).
	Aggregate *Score `json:"aggregate,omitempty"`

	// SenderAgreement and ContentAgreement report whether independent
	// agreement held on each axis. Only meaningful when all brokers
	// produced numeric evaluations.
	SenderAgreement  bool `json:"sender_agreement"`
	ContentAgreement bool `json:"content_agreement"`
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
