// Package health provides liveness and readiness probes for Saturn.
//
// The Checker runs registered component checks (evidence storage, workload
// store, broker reachability) concurrently with a per-check timeout and
// aggregates them into a readiness status. Liveness is a constant check that
// only verifies the process responds.
//
// Mount the handlers on the telemetry HTTP server:
//
//	checker := health.New(0)
//	checker.RegisterCheck("evidence", func(ctx context.Context) error {
//		return store.Ping(ctx)
//	})
//	mux.Handle("/healthz", checker.LivenessHandler())
//	mux.Handle("/readyz", checker.ReadinessHandler())
package health
