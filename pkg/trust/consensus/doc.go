// Package consensus implements the trust-consensus check that gates
// acceptance of inbound information.
//
// # Overview
//
// The Evaluator queries a set of independent trust brokers and admits
// content only when:
//
//  1. No broker flags the sender or content (a single veto is absolute).
//  2. Broker evaluations converge: on each axis, at least the policy's
//     minimum number of values fall within the tolerance band of the
//     mean of all values.
//  3. The aggregate (per-axis mean) clears the required threshold on
//     both axes independently.
//
// A broker that errors or times out is treated as a veto (fail-closed),
// reported distinctly from an explicit flag. If the broker set is smaller
// than the policy minimum, the evaluation fails closed without querying
// anyone.
//
// The agreement check compares each value to the mean of all values, not
// pairwise. An outlier can therefore count as agreeing when it sits within
// tolerance of a mean it helped shift; this matches the governed system's
// documented behavior.
//
// # Concurrency
//
// Broker queries within one evaluation are issued concurrently, each
// bounded by a per-broker timeout. Partial results from a timed-out broker
// are discarded. Each Evaluate call is a pure function of its inputs apart
// from audit emission; the Evaluator holds no per-workload state and is
// safe for concurrent use across workloads.
package consensus
