// Package state persists the mapping between partner VINs and the car ids
// assigned by the dealer platform.
//
// The store is a single JSON document keyed by VIN:
//
//	{
//	  "vehicles": {
//	    "WVWZZZ1JZXW000001": {
//	      "car_id": "42",
//	      "configuration_number": "CFG-17",
//	      "active": true
//	    }
//	  }
//	}
//
// # Lifecycle
//
// An entry is created on the first successful remote creation for a VIN. Its
// car id changes only when the vehicle is recreated after the remote copy
// disappeared. The active flag flips off when the vehicle is closed remotely
// and back on when the VIN reappears in a later feed. Entries are never
// physically deleted, which is what makes reactivation possible without
// creating duplicate remote records.
//
// # Durability
//
// Save writes the full document to a temporary file and renames it into
// place, so a crash mid-write cannot truncate the ledger. A missing or
// corrupt file on load yields an empty store with a structured warning; the
// store never fails to open.
package state
