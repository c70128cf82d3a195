package harness

import (
	"maps"
	"slices"
	"strconv"

	"github.com/roach88/demoreplay/internal/artifact"
)

// absent is reported as the actual value of a missing analysis key.
const absent = "<absent>"

// Evaluate checks outcome against every set expectation and returns the
// failures in a fixed order: exit status, flags, counts, total, then raw
// analysis keys sorted by name.
func Evaluate(expect *Expectations, outcome *Outcome) []*AssertionError {
	analysis := artifact.NewAnalysis(outcome.Analysis)
	var failures []*AssertionError

	checkBool := func(field string, want *bool, got bool) {
		if want != nil && *want != got {
			failures = append(failures, &AssertionError{
				Field:    field,
				Expected: strconv.FormatBool(*want),
				Actual:   strconv.FormatBool(got),
			})
		}
	}
	checkInt := func(field string, want *int, got int) {
		if want != nil && *want != got {
			failures = append(failures, &AssertionError{
				Field:    field,
				Expected: strconv.Itoa(*want),
				Actual:   strconv.Itoa(got),
			})
		}
	}

	checkBool("exit_success", expect.ExitSuccess, outcome.Success)
	checkBool("pacifist", expect.Pacifist, analysis.Pacifist())
	checkBool("reality", expect.Reality, analysis.Reality())
	checkBool("almost_reality", expect.AlmostReality, analysis.AlmostReality())
	checkBool("hundred_k", expect.HundredK, analysis.HundredK())
	checkBool("tyson_weapons", expect.TysonWeapons, analysis.TysonWeapons())
	checkInt("missed_monsters", expect.MissedMonsters, analysis.MissedMonsters())
	checkInt("missed_secrets", expect.MissedSecrets, analysis.MissedSecrets())

	if expect.Total != nil && *expect.Total != outcome.Total {
		failures = append(failures, &AssertionError{
			Field:    "total",
			Expected: *expect.Total,
			Actual:   outcome.Total,
		})
	}

	for _, key := range slices.Sorted(maps.Keys(expect.Analysis)) {
		want := expect.Analysis[key]
		got, ok := analysis.Get(key)
		if !ok {
			got = absent
		}
		if !ok || got != want {
			failures = append(failures, &AssertionError{
				Field:    "analysis." + key,
				Expected: want,
				Actual:   got,
			})
		}
	}

	return failures
}
