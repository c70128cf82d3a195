// Package store provides SQLite-backed history of demo replays.
//
// Each replay is one row in the runs table: the demo and archives it used,
// the command line, whether the engine exited cleanly, the total time and
// the raw analysis map.
//
// # Ordering
//
// Rows carry a logical seq assigned on write, never a timestamp. Listings
// order by seq with id as tie-breaker (COLLATE BINARY) so output is the
// same on every machine.
//
// # Storage Format
//
// The analysis map is stored as canonical JSON (see internal/snapshot), so
// identical analyses are byte-identical in the database.
//
// # Opening
//
// Open creates missing parent directories, so a --db path such as
// runs/history.db works on a fresh checkout. Connections use WAL with
// synchronous=NORMAL and a 5 second busy timeout, set through the DSN.
// The schema is versioned with PRAGMA user_version and upgraded in place.
//
// The store only records. Nothing read back from it feeds a later replay.
package store
