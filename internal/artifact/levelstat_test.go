package artifact

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelstat_TotalStripsParens(t *testing.T) {
	path := writeArtifact(t, LevelstatFile, "MAP01 90 85 (05:12) 100\n")

	l, err := ReadLevelstat(path)
	require.NoError(t, err)

	total, err := l.Total()
	require.NoError(t, err)
	assert.Equal(t, "05:12", total)
}

func TestLevelstat_TotalUsesLastRow(t *testing.T) {
	content := strings.Join([]string{
		"MAP01 - 0:31.57 (0:31)  K: 19/19  I: 9/9  S: 5/5",
		"MAP02 - 0:43.40 (1:14)  K: 47/47  I: 20/20  S: 3/3",
		"MAP03 - 0:57.71 (2:11)  K: 72/72  I: 29/29  S: 1/1",
	}, "\n") + "\n"

	l, err := ReadLevelstat(writeArtifact(t, LevelstatFile, content))
	require.NoError(t, err)
	assert.Equal(t, 3, l.Len())

	total, err := l.Total()
	require.NoError(t, err)
	assert.Equal(t, "2:11", total)

	level, ok := l.Level(1)
	assert.True(t, ok)
	assert.Equal(t, "MAP02", level)
}

func TestLevelstat_TotalWithoutParens(t *testing.T) {
	l, err := ParseLevelstat("memory", strings.NewReader("E1M1 a b 12:34 c\n"))
	require.NoError(t, err)

	total, err := l.Total()
	require.NoError(t, err)
	assert.Equal(t, "12:34", total)
}

func TestLevelstat_TotalRemovesEveryParen(t *testing.T) {
	l, err := ParseLevelstat("memory", strings.NewReader("MAP01 a b ((1:)02)\n"))
	require.NoError(t, err)

	total, err := l.Total()
	require.NoError(t, err)
	assert.Equal(t, "1:02", total)
}

func TestLevelstat_EmptyFileIsNoTime(t *testing.T) {
	l, err := ReadLevelstat(writeArtifact(t, LevelstatFile, ""))
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())

	total, err := l.Total()
	require.NoError(t, err)
	assert.Equal(t, "00:00", total)
	assert.Equal(t, NoTime, total)
}

func TestLevelstat_ShortLastRow(t *testing.T) {
	path := writeArtifact(t, LevelstatFile, "MAP01 - 0:31 (0:31)\nMAP02 -\n")

	l, err := ReadLevelstat(path)
	require.NoError(t, err)

	_, err = l.Total()
	require.Error(t, err)
	assert.True(t, IsIndexError(err))

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 2, ae.Line)
	assert.Equal(t, path, ae.Path)
}

func TestLevelstat_TrailingBlankLineIsAShortRow(t *testing.T) {
	l, err := ParseLevelstat("memory", strings.NewReader("MAP01 - 0:31 (0:31)\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())

	_, err = l.Total()
	assert.True(t, IsIndexError(err))
}

func TestLevelstat_RowsKeepOrderAndAreCopies(t *testing.T) {
	l, err := ParseLevelstat("memory", strings.NewReader("MAP01 a b c\n\nMAP02 d e f\n"))
	require.NoError(t, err)

	rows := l.Rows()
	assert.Equal(t, [][]string{
		{"MAP01", "a", "b", "c"},
		{},
		{"MAP02", "d", "e", "f"},
	}, rows)

	rows[0][0] = "changed"
	level, ok := l.Level(0)
	assert.True(t, ok)
	assert.Equal(t, "MAP01", level)

	_, ok = l.Level(1)
	assert.False(t, ok, "blank row has no level")
	_, ok = l.Level(5)
	assert.False(t, ok)
}

func TestLevelstat_NotFound(t *testing.T) {
	_, err := ReadLevelstat(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLevelstat_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LevelstatFile), []byte("MAP01 - 0:09 (0:09)\n"), 0o644))
	t.Chdir(dir)

	l, err := ReadLevelstat("")
	require.NoError(t, err)

	total, err := l.Total()
	require.NoError(t, err)
	assert.Equal(t, "0:09", total)
}

func TestError_Format(t *testing.T) {
	err := newFormatError("analysis.txt", 4, []string{"a"})
	assert.Contains(t, err.Error(), "FORMAT: analysis.txt:4:")

	nf := newNotFoundError("levelstat.txt")
	assert.Contains(t, nf.Error(), "NOT_FOUND: levelstat.txt:")
}

func TestParseIntOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"3", 3},
		{"42", 42},
		{"-7", -7},
		{"+8", 8},
		{"3x", 3},
		{"12:34", 12},
		{"x3", 0},
		{"-", 0},
		{"+", 0},
		{"abc", 0},
		{"1_000", 1000},
		{"1__000", 1},
		{"_1", 0},
		{"1_", 1},
		{"99999999999999999999", math.MaxInt},
		{"-99999999999999999999", math.MinInt},
		{"9223372036854775807", math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIntOrZero(tt.in))
		})
	}
}
