// Package artifact reads the text files prboom-plus writes during a replay.
//
// Two artifacts are supported:
//
//   - analysis.txt (Analysis): one "key value" pair per line, e.g.
//
//     pacifist 1
//     missed_monsters 3
//
//   - levelstat.txt (Levelstat): one row of whitespace-separated fields per
//     completed level; field 4 of the last row is the cumulative run time,
//     optionally wrapped in parentheses:
//
//     MAP01 - 0:12.34 (0:12)  K: 10/10  I: 5/5  S: 1/1
//
// Results are read-only snapshots. Every replay overwrites both files, so a
// result must be re-read after each replay rather than cached.
//
// Errors are *Error values; use IsNotFound, IsFormatError and IsIndexError
// to classify them.
package artifact
