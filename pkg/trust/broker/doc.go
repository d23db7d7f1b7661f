// Package broker defines the trust broker contract consumed by the
// consensus evaluator, along with a simple reference implementation.
//
// # Overview
//
// A trust broker is an independent external party that rates the
// trustworthiness of a sender and of a content payload, and may
// unilaterally flag either as untrustworthy. Brokers are never trusted
// singularly: the consensus evaluator requires a quorum of brokers to
// converge before a score is accepted.
//
// Each call on a broker is independent; the consensus evaluator assumes
// no state is carried between calls within one evaluation. Implementations
// must respect context deadlines and return promptly, because the
// evaluator bounds every query with a per-broker timeout.
package broker
