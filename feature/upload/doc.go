// Package upload exposes synchronisation runs over HTTP. A partner posts a
// CSV feed to /sync and receives the detailed report back; the same document
// is archived under a report id for later retrieval via the reports feature.
// A feed with invalid rows is rejected whole before any remote call.
//
// Runs against the shared state store are serialized.
package upload
