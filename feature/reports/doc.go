// Package reports archives synchronisation reports and serves them for
// download.
//
// Two archive backends exist: a local directory (default) and an
// object-storage bucket via core/storage. Reports are identified by UUIDs
// assigned when a run finishes; GET /reports/:id streams the stored JSON.
package reports
