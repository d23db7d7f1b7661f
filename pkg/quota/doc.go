// Package quota implements tiered resource ceiling enforcement for
// SubAgent workloads.
//
// # Overview
//
// A workload is provisioned with an immutable Profile of resource
// ceilings. The orchestrator periodically feeds the Monitor a usage
// Snapshot; the Monitor classifies each resource category into one of
// three tiers and emits enforcement records:
//
//   - Nominal: usage below 90% of the ceiling. No record.
//   - Soft: usage between 90% of the ceiling and the ceiling, both ends
//     inclusive. Advisory record; the workload keeps running and any
//     throttling happens at the category's external control point.
//   - Hard: usage strictly above the ceiling. Terminal record carrying
//     TerminatesWorkload.
//
// Categories are evaluated independently in a fixed order on every
// call; an over-limit reading in one category never changes how another
// is classified. When several categories breach Hard on the same call,
// all are reported but only the first carries the termination marker,
// so termination stays a single workload-level action.
//
// The cost category honors the profile's HardBudgetEnforcement flag.
// When the flag is off, cost overruns are reported as Soft regardless
// of how far past the ceiling they run.
//
// Over-limit usage is a modeled outcome, not an error. Evaluate returns
// an error only for malformed input (invalid profile or snapshot), and
// in that case emits no records at all.
//
// # Thread Safety
//
// The Monitor holds no per-workload state and is safe for concurrent
// use across workloads. Calls for a single workload must be serialized
// by the caller; the orchestrator does this with a per-workload lock.
package quota
