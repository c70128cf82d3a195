package artifact

import (
	"io"
	"maps"
	"slices"
)

// AnalysisFile is the file the engine writes for -analysis.
const AnalysisFile = "analysis.txt"

// Keys written by the engine's analysis.
const (
	KeyPacifist       = "pacifist"
	KeyReality        = "reality"
	KeyAlmostReality  = "almost_reality"
	KeyHundredK       = "100k"
	KeyMissedMonsters = "missed_monsters"
	KeyMissedSecrets  = "missed_secrets"
	KeyTysonWeapons   = "tyson_weapons"
)

// Analysis is the run summary of one replay.
type Analysis struct {
	data map[string]string
}

// ReadAnalysis loads the analysis artifact at path. An empty path reads
// AnalysisFile from the current directory.
func ReadAnalysis(path string) (*Analysis, error) {
	if path == "" {
		path = AnalysisFile
	}

	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseAnalysis(path, f)
}

// ParseAnalysis parses analysis content from r. name is used in errors.
//
// Blank lines are skipped. Every other line must hold exactly two
// whitespace-separated tokens. When a key repeats, the last line wins.
func ParseAnalysis(name string, r io.Reader) (*Analysis, error) {
	rows, err := splitLines(name, r)
	if err != nil {
		return nil, err
	}

	data := make(map[string]string, len(rows))
	for i, fields := range rows {
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, newFormatError(name, i+1, fields)
		}
		data[fields[0]] = fields[1]
	}

	return &Analysis{data: data}, nil
}

// NewAnalysis wraps key/value pairs read elsewhere, such as a stored run.
func NewAnalysis(data map[string]string) *Analysis {
	if data == nil {
		return &Analysis{data: map[string]string{}}
	}
	return &Analysis{data: maps.Clone(data)}
}

// Get returns the raw value stored for key.
func (a *Analysis) Get(key string) (string, bool) {
	v, ok := a.data[key]
	return v, ok
}

// Flag reports whether key is set to "1". Absent keys and any other value
// are false.
func (a *Analysis) Flag(key string) bool {
	return a.data[key] == "1"
}

// Count returns key as an integer. Absent or non-numeric values are 0.
func (a *Analysis) Count(key string) int {
	return parseIntOrZero(a.data[key])
}

// Keys returns all keys, sorted.
func (a *Analysis) Keys() []string {
	return slices.Sorted(maps.Keys(a.data))
}

// Map returns a copy of the key/value pairs.
func (a *Analysis) Map() map[string]string {
	return maps.Clone(a.data)
}

// Len returns the number of distinct keys.
func (a *Analysis) Len() int {
	return len(a.data)
}

// Pacifist reports whether the run never damaged a monster.
func (a *Analysis) Pacifist() bool { return a.Flag(KeyPacifist) }

// Reality reports whether the run took no damage.
func (a *Analysis) Reality() bool { return a.Flag(KeyReality) }

// AlmostReality reports whether the only damage taken was from the floor.
func (a *Analysis) AlmostReality() bool { return a.Flag(KeyAlmostReality) }

// HundredK reports whether every monster was killed (100% kills).
func (a *Analysis) HundredK() bool { return a.Flag(KeyHundredK) }

// TysonWeapons reports whether only fist, chainsaw and pistol were used.
func (a *Analysis) TysonWeapons() bool { return a.Flag(KeyTysonWeapons) }

// MissedMonsters is the number of monsters left alive.
func (a *Analysis) MissedMonsters() int { return a.Count(KeyMissedMonsters) }

// MissedSecrets is the number of secrets not found.
func (a *Analysis) MissedSecrets() int { return a.Count(KeyMissedSecrets) }
