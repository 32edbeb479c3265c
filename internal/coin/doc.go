// Package coin identifies and values coins from detected circle radii.
//
// # Reference Data
//
// A Table lists denominations in a fixed order; a denomination's index in the
// table is its id. Each denomination carries two reference radii, one per mint
// generation, which may be equal. Tables are immutable during classification:
// per-run counts live in Result.Counts, indexed by the same id.
//
// # Matching
//
// Table.Candidates flattens the table into (denomination, generation, radius)
// tuples in evaluation order: denominations in table order, the old radius
// before the new one. FindMatch scans that list and keeps the candidate with
// the smallest absolute difference to the detected radius among those within
// tolerance. The tolerance margin is relative to the reference radius under
// test, not to the detected radius. Exact ties keep the earlier candidate.
//
// # Classification
//
// Classifier.Classify runs FindMatch for every circle in input order, tallies
// counts and the total value, and annotates a private copy of the base image.
// It never fails and is deterministic for identical inputs.
package coin
