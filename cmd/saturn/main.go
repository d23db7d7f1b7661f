// Saturn is a governance enforcement core for autonomous SubAgent
// workloads.
//
// A Front-Line Agent (FLA) orchestrator provisions SubAgent workloads,
// mediates their communication through a multi-evaluator trust-consensus
// engine, and enforces tiered resource quotas with irreversible
// termination at the hard tier. Every decision leaves an audit record.
//
// Usage:
//
//	# Start the governance core with default configuration
//	saturn run
//
//	# Start with a custom configuration file
//	saturn run --config /etc/saturn/config.yaml
//
//	# Validate a configuration file
//	saturn validate
//
//	# Query the evidence trail
//	saturn evidence query --workload SA-General-abc --kind decision
//
//	# Export evidence for offline audit
//	saturn evidence export --format csv --output evidence.csv
//
//	# Show version information
//	saturn version
package main

func main() {
	Execute()
}
