// Package sync implements the reconciliation engine between the partner
// vehicle feed and the dealer listing platform.
//
// For each desired vehicle the engine decides whether to create, update,
// recreate after remote drift, or leave untouched, and optionally closes
// vehicles that dropped out of the feed. The state store's VIN ledger is the
// engine's memory: a VIN with a remembered car id is updated in place, a
// stale car id (remote returns not-found on update) triggers recreation, and
// a deactivated VIN that reappears reuses its remembered id instead of
// creating a duplicate listing.
//
// # Failure model
//
// Per-vehicle failures never abort the batch; they are converted into report
// entries and the run continues. The only batch-fatal condition is a
// duplicate VIN in the input, which is rejected before any remote call. No
// call is retried within a run.
//
// # Consistency
//
// There is a deliberate gap between remote mutations and the local ledger: a
// crash after successful remote calls but before (or during) the final state
// save can cause the next run to recreate or re-close vehicles. The save
// step's failure is therefore recorded as its own report error so operators
// can react.
package sync
