// Package repair rebuilds the legacy numeric sort_order column when manifest
// and column ordering have drifted. Each procedure is a full scan and rewrite,
// deterministic for a stable set of creation timestamps, and safe to re-run.
// Procedures are not safe to run while the order is being edited; run them
// from a one-shot invocation with the admin console quiet.
package repair

// Report summarizes one procedure run. Skipped counts rows whose individual
// update failed; those failures are logged and the run continues.
type Report struct {
	Scanned int
	Updated int
	Skipped int
}
