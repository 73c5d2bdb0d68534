// Package inventory ingests the partner vehicle feed.
//
// The feed arrives as CSV with partner-specific quirks: Polish enum labels,
// comma decimals, grouping spaces in numbers, literal "NULL" strings and
// pipe-separated description fragments. CleanRow scrubs one raw row into
// canonical values; ReadVehicles drives the CSV parsing and per-row
// validation, returning valid vehicles alongside row-level errors so a
// single bad row never blocks the rest of the feed.
//
// Location resolution goes through the Locations service, an injected
// lookup table with an explicit Reload, constructed from a JSON mapping
// file.
package inventory
