package artifact

import (
	"io"
	"slices"
	"strings"
)

// LevelstatFile is the file the engine writes for -levelstat.
const LevelstatFile = "levelstat.txt"

// NoTime is reported by Total when no level was completed.
const NoTime = "00:00"

// totalField is the index of the cumulative time in a levelstat row.
const totalField = 3

// Levelstat is the per-level timing table of one replay.
type Levelstat struct {
	name string
	rows [][]string
}

// ReadLevelstat loads the levelstat artifact at path. An empty path reads
// LevelstatFile from the current directory.
func ReadLevelstat(path string) (*Levelstat, error) {
	if path == "" {
		path = LevelstatFile
	}

	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseLevelstat(path, f)
}

// ParseLevelstat parses levelstat content from r. name is used in errors.
// Every line is kept in file order, blank ones as empty rows.
func ParseLevelstat(name string, r io.Reader) (*Levelstat, error) {
	rows, err := splitLines(name, r)
	if err != nil {
		return nil, err
	}
	return &Levelstat{name: name, rows: rows}, nil
}

// Len returns the number of rows.
func (l *Levelstat) Len() int {
	return len(l.rows)
}

// Rows returns a copy of the table.
func (l *Levelstat) Rows() [][]string {
	out := make([][]string, len(l.rows))
	for i, row := range l.rows {
		out[i] = slices.Clone(row)
	}
	return out
}

// Level returns the level name (first field) of row i.
func (l *Levelstat) Level(i int) (string, bool) {
	if i < 0 || i >= len(l.rows) || len(l.rows[i]) == 0 {
		return "", false
	}
	return l.rows[i][0], true
}

// Total returns the cumulative run time from the last row: its fourth field
// with any parentheses removed, e.g. "(05:12)" -> "05:12". An empty table
// yields NoTime. A last row with fewer than four fields is an ErrCodeIndex
// error.
func (l *Levelstat) Total() (string, error) {
	if len(l.rows) == 0 {
		return NoTime, nil
	}

	last := l.rows[len(l.rows)-1]
	if len(last) <= totalField {
		return "", newIndexError(l.name, len(l.rows), totalField, last)
	}

	return stripParens(last[totalField]), nil
}

var parenStripper = strings.NewReplacer("(", "", ")", "")

func stripParens(s string) string {
	return parenStripper.Replace(s)
}
