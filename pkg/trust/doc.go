// Package trust defines the data model shared by the trust-consensus
// machinery: bounded trust scores, agreement policies, and reason-coded
// governance decisions.
//
// # Overview
//
// Inbound information is admitted to a workload only when a set of
// independent trust brokers converge on its trustworthiness. The types in
// this package capture the configuration for that check (AgreementPolicy),
// the two-axis score it produces (Score), and its terminal outcome
// (Decision).
//
// Scores carry two independent axes:
//
//   - Sender trust: historical reliability and behavioral integrity of
//     the sender.
//   - Content trust: factual accuracy and provenance of the payload.
//
// Both axes must independently clear their thresholds for admission; a
// high score on one axis never compensates for a low score on the other.
//
// # Thread Safety
//
// All types in this package are immutable after construction and safe for
// concurrent use.
package trust
