package consensus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"subagentic-hq/saturn/pkg/evidence"
	"subagentic-hq/saturn/pkg/trust"
	"subagentic-hq/saturn/pkg/trust/broker"
)

// DefaultBrokerTimeout bounds each broker query so one unresponsive
// broker cannot stall admission indefinitely.
const DefaultBrokerTimeout = 5 * time.Second

// Config contains configuration for the consensus evaluator.
type Config struct {
	// BrokerTimeout is the per-broker query timeout. A broker that does
	// not answer within this window is treated as unavailable, which
	// fails the evaluation closed.
	// Default: 5 seconds
	BrokerTimeout time.Duration
}

// Verdict is one broker's output for one evaluation.
type Verdict struct {
	BrokerID     string
	SenderTrust  float64
	ContentTrust float64
	Flagged      bool
	Err          error
	Latency      time.Duration
}

// Evaluator runs the trust-consensus check. It holds no per-workload
// state; every Evaluate call is self-contained given its inputs.
type Evaluator struct {
	config Config
	sink   evidence.Sink
	logger *slog.Logger
}

// NewEvaluator creates a consensus evaluator. The sink receives exactly
// one audit record per Evaluate call; a nil sink disables audit emission
// (tests only).
func NewEvaluator(config Config, sink evidence.Sink) *Evaluator {
	if config.BrokerTimeout <= 0 {
		config.BrokerTimeout = DefaultBrokerTimeout
	}
	return &Evaluator{
		config: config,
		sink:   sink,
		logger: slog.Default().With("component", "trust.consensus"),
	}
}

// Evaluate decides whether inbound content from senderID may be admitted
// to the given workload, using the supplied brokers and agreement policy.
//
// The decision is always returned as a value, never an error: rejection
// for any reason (veto, unavailability, disagreement, low score) is a
// modeled outcome. Exactly one audit record is emitted per invocation.
func (e *Evaluator) Evaluate(ctx context.Context, workloadID, senderID, content string, brokers []broker.Broker, policy trust.AgreementPolicy) trust.Decision {
	policy.Normalize()

	evaluationID := uuid.New().String()
	start := time.Now().UTC()

	if len(brokers) < policy.MinimumAgreeingBrokers {
		decision := trust.Decision{Admitted: false, Reason: trust.ReasonInsufficientBrokers}
		e.logger.Warn("broker set below minimum agreement requirement",
			"evaluation_id", evaluationID,
			"brokers", len(brokers),
			"minimum", policy.MinimumAgreeingBrokers,
		)
		e.emit(ctx, workloadID, evaluationID, senderID, content, start, nil, decision)
		return decision
	}

	// Phase 1: flag check across all brokers. Any flag vetoes outright;
	// an unreachable broker also fails the call closed.
	verdicts := e.queryFlags(ctx, senderID, content, brokers)

	if flagged, unavailable := summarize(verdicts); flagged || unavailable {
		reason := trust.ReasonVetoed
		if !flagged {
			reason = trust.ReasonBrokerUnavailable
		}
		decision := trust.Decision{Admitted: false, Reason: reason}
		e.logDecision(evaluationID, senderID, decision)
		e.emit(ctx, workloadID, evaluationID, senderID, content, start, verdicts, decision)
		return decision
	}

	// Phase 2: numeric trust evaluation across all brokers.
	e.queryScores(ctx, senderID, content, brokers, verdicts)

	if _, unavailable := summarize(verdicts); unavailable {
		decision := trust.Decision{Admitted: false, Reason: trust.ReasonBrokerUnavailable}
		e.logDecision(evaluationID, senderID, decision)
		e.emit(ctx, workloadID, evaluationID, senderID, content, start, verdicts, decision)
		return decision
	}

	senderValues := make([]float64, len(verdicts))
	contentValues := make([]float64, len(verdicts))
	for i, v := range verdicts {
		senderValues[i] = v.SenderTrust
		contentValues[i] = v.ContentTrust
	}

	senderMean, senderAgreement := independentAgreement(senderValues, policy)
	contentMean, contentAgreement := independentAgreement(contentValues, policy)

	decision := trust.Decision{
		SenderAgreement:  senderAgreement,
		ContentAgreement: contentAgreement,
	}

	if !senderAgreement || !contentAgreement {
		decision.Admitted = false
		decision.Reason = trust.ReasonNoAgreement
		e.logDecision(evaluationID, senderID, decision)
		e.emit(ctx, workloadID, evaluationID, senderID, content, start, verdicts, decision)
		return decision
	}

	// The mean that established agreement is the aggregate, over all
	// brokers, not only the in-band ones.
	aggregate := trust.NewScore(senderMean, contentMean)
	decision.Aggregate = &aggregate

	if aggregate.MeetsThreshold(policy.RequiredThreshold) {
		decision.Admitted = true
		decision.Reason = trust.ReasonAdmitted
	} else {
		decision.Admitted = false
		decision.Reason = trust.ReasonBelowThreshold
	}

	e.logDecision(evaluationID, senderID, decision)
	e.emit(ctx, workloadID, evaluationID, senderID, content, start, verdicts, decision)
	return decision
}

// errBrokerTimeout marks a broker that did not answer within the query
// window. The deadline is enforced here, not delegated to the broker: a
// broker that ignores its context is still cut off, and its late result
// is discarded rather than admitted.
var errBrokerTimeout = errors.New("broker query timed out")

// flagResult carries one broker's flag answer back to the evaluator.
type flagResult struct {
	index   int
	verdict Verdict
}

// queryFlags runs IsFlagged on every broker concurrently and returns one
// verdict per broker, in broker order. Brokers that miss the timeout get
// a timeout error verdict; their goroutines finish into the buffered
// channel and their answers are never read.
func (e *Evaluator) queryFlags(ctx context.Context, senderID, content string, brokers []broker.Broker) []Verdict {
	results := make(chan flagResult, len(brokers))

	for i, b := range brokers {
		go func(i int, b broker.Broker) {
			queryCtx, cancel := context.WithTimeout(ctx, e.config.BrokerTimeout)
			defer cancel()

			begin := time.Now()
			flagged, err := b.IsFlagged(queryCtx, senderID, content)
			results <- flagResult{i, Verdict{
				BrokerID: b.ID(),
				Flagged:  flagged,
				Err:      err,
				Latency:  time.Since(begin),
			}}
		}(i, b)
	}

	verdicts := make([]Verdict, len(brokers))
	received := make([]bool, len(brokers))

	deadline := time.NewTimer(e.config.BrokerTimeout)
	defer deadline.Stop()

	for n := 0; n < len(brokers); {
		select {
		case r := <-results:
			verdicts[r.index] = r.verdict
			received[r.index] = true
			n++
		case <-deadline.C:
			for i, b := range brokers {
				if !received[i] {
					verdicts[i] = Verdict{
						BrokerID: b.ID(),
						Err:      errBrokerTimeout,
						Latency:  e.config.BrokerTimeout,
					}
				}
			}
			return verdicts
		}
	}
	return verdicts
}

// scoreResult carries one broker's numeric answers back to the evaluator.
type scoreResult struct {
	index        int
	senderTrust  float64
	contentTrust float64
	err          error
	latency      time.Duration
}

// queryScores runs both trust evaluations on every broker concurrently
// and fills the numeric fields of the existing verdicts. Timeout handling
// mirrors queryFlags: a broker past the deadline is marked unavailable
// and anything it reports later is discarded.
func (e *Evaluator) queryScores(ctx context.Context, senderID, content string, brokers []broker.Broker, verdicts []Verdict) {
	results := make(chan scoreResult, len(brokers))

	for i, b := range brokers {
		go func(i int, b broker.Broker) {
			queryCtx, cancel := context.WithTimeout(ctx, e.config.BrokerTimeout)
			defer cancel()

			begin := time.Now()
			senderTrust, err := b.EvaluateSenderTrust(queryCtx, senderID)
			if err != nil {
				results <- scoreResult{index: i, err: err, latency: time.Since(begin)}
				return
			}

			contentTrust, err := b.EvaluateContentTrust(queryCtx, content)
			results <- scoreResult{
				index:        i,
				senderTrust:  senderTrust,
				contentTrust: contentTrust,
				err:          err,
				latency:      time.Since(begin),
			}
		}(i, b)
	}

	received := make([]bool, len(brokers))

	deadline := time.NewTimer(e.config.BrokerTimeout)
	defer deadline.Stop()

	for n := 0; n < len(brokers); {
		select {
		case r := <-results:
			verdicts[r.index].SenderTrust = clampAxis(r.senderTrust)
			verdicts[r.index].ContentTrust = clampAxis(r.contentTrust)
			verdicts[r.index].Err = r.err
			verdicts[r.index].Latency += r.latency
			received[r.index] = true
			n++
		case <-deadline.C:
			for i := range verdicts {
				if !received[i] {
					verdicts[i].Err = errBrokerTimeout
					verdicts[i].Latency += e.config.BrokerTimeout
				}
			}
			return
		}
	}
}

// summarize reports whether any verdict carries a flag or an error.
func summarize(verdicts []Verdict) (flagged, unavailable bool) {
	for _, v := range verdicts {
		if v.Flagged {
			flagged = true
		}
		if v.Err != nil {
			unavailable = true
		}
	}
	return flagged, unavailable
}

// independentAgreement computes the mean of all values and reports
// whether at least the policy minimum fall within the tolerance band of
// that mean. Each value is compared against the mean of all values, not
// pairwise.
func independentAgreement(values []float64, policy trust.AgreementPolicy) (mean float64, ok bool) {
	if len(values) < policy.MinimumAgreeingBrokers {
		return 0, false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	inBand := 0
	for _, v := range values {
		diff := v - mean
		if diff < 0 {
			diff = -diff
		}
		if diff <= policy.ToleranceBand {
			inBand++
		}
	}

	return mean, inBand >= policy.MinimumAgreeingBrokers
}

// emit writes the audit record for one evaluation: every broker's raw
// verdict, the per-axis agreement outcome, and the final decision.
func (e *Evaluator) emit(ctx context.Context, workloadID, evaluationID, senderID, content string, observed time.Time, verdicts []Verdict, decision trust.Decision) {
	if e.sink == nil {
		return
	}

	record := &evidence.Record{
		Kind:             evidence.KindDecision,
		WorkloadID:       workloadID,
		EvaluationID:     evaluationID,
		ObservedTime:     observed,
		SenderID:         senderID,
		ContentHash:      hashContent(content),
		Admitted:         decision.Admitted,
		Reason:           string(decision.Reason),
		SenderAgreement:  decision.SenderAgreement,
		ContentAgreement: decision.ContentAgreement,
	}

	if decision.Aggregate != nil {
		senderTrust := decision.Aggregate.SenderTrust
		contentTrust := decision.Aggregate.ContentTrust
		record.SenderTrust = &senderTrust
		record.ContentTrust = &contentTrust
	}

	for _, v := range verdicts {
		verdictRecord := evidence.BrokerVerdictRecord{
			BrokerID:     v.BrokerID,
			SenderTrust:  v.SenderTrust,
			ContentTrust: v.ContentTrust,
			Flagged:      v.Flagged,
			Latency:      v.Latency,
		}
		if v.Err != nil {
			verdictRecord.Error = v.Err.Error()
		}
		record.BrokerVerdicts = append(record.BrokerVerdicts, verdictRecord)
	}

	if err := e.sink.Append(ctx, record); err != nil {
		e.logger.Error("failed to emit decision evidence",
			"evaluation_id", evaluationID,
			"error", err,
		)
	}
}

func (e *Evaluator) logDecision(evaluationID, senderID string, decision trust.Decision) {
	e.logger.Info("consensus decision",
		"evaluation_id", evaluationID,
		"sender_id", senderID,
		"admitted", decision.Admitted,
		"reason", decision.Reason,
	)
}

func clampAxis(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// hashContent returns the SHA-256 of the inbound payload so the audit
// trail can reference content without storing it.
func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
