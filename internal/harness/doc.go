// Package harness runs demo replay scenarios and checks their outcomes.
//
// A scenario names one demo, the archives it needs and what the replay is
// expected to report. The harness builds the engine invocation, runs it,
// reads analysis.txt and levelstat.txt from the engine's working directory
// and compares them against the expectations.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: nuts_pacifist
//	description: "NUTS.WAD MAP01 pacifist exit"
//	demo: nuts-pacifist.lmp
//	iwad: DOOM2.WAD        # optional, default DOOM2.WAD
//	pwad: NUTS.WAD         # optional
//	expect:
//	  exit_success: true
//	  pacifist: true
//	  reality: false
//	  almost_reality: false
//	  hundred_k: false
//	  tyson_weapons: false
//	  missed_monsters: 10412
//	  missed_secrets: 0
//	  total: "00:41"
//	  analysis:            # raw key/value checks
//	    skill: 4
//
// Files are checked against an embedded CUE schema before decoding, so a
// misspelled key is reported instead of silently ignored. At least one
// expectation is required.
//
// # Failure Semantics
//
// A non-zero engine exit is not an execution error: the artifacts are still
// read and compared, and exit_success can assert on it. Launch failures and
// missing or malformed artifacts abort the scenario with an error.
//
// # Golden Snapshots
//
// Outcome.Snapshot renders everything the replay reported as canonical
// JSON. AssertGolden compares it against testdata/golden/<name>.golden;
// regenerate with:
//
//	go test ./... -update
package harness
